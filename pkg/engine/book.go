package engine

import "sort"

// Level aggregates total resting quantity at one price.
type Level struct {
	Price int64 `json:"price"`
	Qty   int64 `json:"qty"`
}

// book is one ticker's state. Access is guarded by the owning shard's
// mutex; book itself has no locking.
type book struct {
	bids *PriceQueue
	asks *PriceQueue
}

func newBook() *book {
	return &book{bids: NewBidQueue(), asks: NewAskQueue()}
}

// bidLevels returns aggregated bid depth, best (highest) price first.
func (b *book) bidLevels() []Level {
	levels := aggregate(b.bids)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price > levels[j].Price })
	return levels
}

// askLevels returns aggregated ask depth, best (lowest) price first.
func (b *book) askLevels() []Level {
	levels := aggregate(b.asks)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	return levels
}

func aggregate(q *PriceQueue) []Level {
	byPrice := make(map[int64]int64)
	for _, o := range q.ordersUnordered() {
		byPrice[o.Price] += o.Qty
	}
	levels := make([]Level, 0, len(byPrice))
	for price, qty := range byPrice {
		levels = append(levels, Level{Price: price, Qty: qty})
	}
	return levels
}
