package engine

import (
	"errors"
	"math/rand"
	"testing"
)

func TestBidQueuePricePriority(t *testing.T) {
	q := NewBidQueue()
	prices := []int64{100, 250, 10, 990, 500, 250}
	for i, p := range prices {
		q.Insert(&Order{ID: uint64(i + 1), Side: Buy, Price: p, Qty: 1, Sequence: uint64(i + 1)})
	}

	want := []int64{990, 500, 250, 250, 100, 10}
	for i, wp := range want {
		o, err := q.PopBest()
		if err != nil {
			t.Fatalf("pop %d: %v", i, err)
		}
		if o.Price != wp {
			t.Fatalf("pop %d: got price %d, want %d", i, o.Price, wp)
		}
	}
	if !q.Empty() {
		t.Fatal("queue not empty after draining")
	}
}

func TestAskQueuePricePriority(t *testing.T) {
	q := NewAskQueue()
	prices := []int64{100, 250, 10, 990, 500}
	for i, p := range prices {
		q.Insert(&Order{ID: uint64(i + 1), Side: Sell, Price: p, Qty: 1, Sequence: uint64(i + 1)})
	}

	want := []int64{10, 100, 250, 500, 990}
	for i, wp := range want {
		o, err := q.PopBest()
		if err != nil {
			t.Fatalf("pop %d: %v", i, err)
		}
		if o.Price != wp {
			t.Fatalf("pop %d: got price %d, want %d", i, o.Price, wp)
		}
	}
}

func TestEqualPricesResolveToOldestSequence(t *testing.T) {
	for _, tc := range []struct {
		name string
		q    *PriceQueue
	}{
		{"bids", NewBidQueue()},
		{"asks", NewAskQueue()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Insert out of sequence order on purpose.
			for _, seq := range []uint64{5, 2, 9, 1, 7} {
				tc.q.Insert(&Order{ID: seq, Price: 300, Qty: 1, Sequence: seq})
			}
			for _, want := range []uint64{1, 2, 5, 7, 9} {
				o, err := tc.q.PopBest()
				if err != nil {
					t.Fatal(err)
				}
				if o.Sequence != want {
					t.Fatalf("got sequence %d, want %d", o.Sequence, want)
				}
			}
		})
	}
}

func TestPeekBestDoesNotRemove(t *testing.T) {
	q := NewBidQueue()
	if _, ok := q.PeekBest(); ok {
		t.Fatal("peek on empty queue reported an order")
	}
	q.Insert(&Order{ID: 1, Price: 42, Qty: 1, Sequence: 1})
	for i := 0; i < 3; i++ {
		o, ok := q.PeekBest()
		if !ok || o.Price != 42 {
			t.Fatalf("peek %d: got %v, %v", i, o, ok)
		}
	}
	if q.Len() != 1 {
		t.Fatalf("peek changed queue length: %d", q.Len())
	}
}

func TestPopBestOnEmptyQueue(t *testing.T) {
	q := NewAskQueue()
	o, err := q.PopBest()
	if !errors.Is(err, ErrEmptyQueue) {
		t.Fatalf("got (%v, %v), want ErrEmptyQueue", o, err)
	}
	// Still empty, still deterministic.
	if _, err := q.PopBest(); !errors.Is(err, ErrEmptyQueue) {
		t.Fatalf("second pop: got %v, want ErrEmptyQueue", err)
	}
}

func TestRandomizedInsertionKeepsTotalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	q := NewBidQueue()
	const n = 2000
	for seq := uint64(1); seq <= n; seq++ {
		q.Insert(&Order{ID: seq, Price: int64(rng.Intn(50) + 1), Qty: 1, Sequence: seq})
	}

	prev, err := q.PopBest()
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < n; i++ {
		o, err := q.PopBest()
		if err != nil {
			t.Fatal(err)
		}
		if o.Price > prev.Price {
			t.Fatalf("extraction %d: price %d after %d", i, o.Price, prev.Price)
		}
		if o.Price == prev.Price && o.Sequence < prev.Sequence {
			t.Fatalf("extraction %d: sequence %d after %d at price %d",
				i, o.Sequence, prev.Sequence, o.Price)
		}
		prev = o
	}
}
