package sink

import (
	"context"
	"testing"

	"github.com/quantaxe/matchcore/pkg/engine"
)

func TestJournalRecentNewestFirst(t *testing.T) {
	j, err := OpenJournal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	ctx := context.Background()
	batches := [][]engine.Trade{
		{
			{Ticker: 5, Qty: 10, Price: 90, BuyOrderID: 1, SellOrderID: 2},
		},
		{
			{Ticker: 5, Qty: 3, Price: 95, BuyOrderID: 3, SellOrderID: 4},
			{Ticker: 9, Qty: 7, Price: 40, BuyOrderID: 5, SellOrderID: 6},
		},
	}
	for _, b := range batches {
		if err := j.Publish(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	got, err := j.Recent(5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d trades for ticker 5, want 2", len(got))
	}
	if got[0].Price != 95 || got[1].Price != 90 {
		t.Fatalf("not newest first: %v", got)
	}

	got, err = j.Recent(9, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Qty != 7 {
		t.Fatalf("ticker 9: got %v", got)
	}

	// Ticker with no trades.
	got, err = j.Recent(100, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("ticker 100 should have no trades, got %v", got)
	}
}

func TestJournalRecentHonorsLimit(t *testing.T) {
	j, err := OpenJournal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	var trades []engine.Trade
	for i := 0; i < 20; i++ {
		trades = append(trades, engine.Trade{
			Ticker: 1, Qty: 1, Price: int64(i + 1), BuyOrderID: uint64(2*i + 1), SellOrderID: uint64(2*i + 2),
		})
	}
	if err := j.Publish(context.Background(), trades); err != nil {
		t.Fatal(err)
	}

	got, err := j.Recent(1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d trades, want 5", len(got))
	}
	// Newest first: prices 20 down to 16.
	for i, tr := range got {
		if want := int64(20 - i); tr.Price != want {
			t.Fatalf("trade %d: got price %d, want %d", i, tr.Price, want)
		}
	}
}
