package engine

import "container/heap"

// orderHeap implements heap.Interface over resting orders. With max
// set it is a bid heap (highest price on top), otherwise an ask heap
// (lowest price on top). Equal prices fall back to sequence, oldest
// first, so the ordering is total: two distinct orders never compare
// equal and extraction order is deterministic.
type orderHeap struct {
	orders []*Order
	max    bool
}

func (h *orderHeap) Len() int { return len(h.orders) }

func (h *orderHeap) Less(i, j int) bool {
	a, b := h.orders[i], h.orders[j]
	if a.Price != b.Price {
		if h.max {
			return a.Price > b.Price
		}
		return a.Price < b.Price
	}
	return a.Sequence < b.Sequence
}

func (h *orderHeap) Swap(i, j int) { h.orders[i], h.orders[j] = h.orders[j], h.orders[i] }

func (h *orderHeap) Push(x interface{}) {
	h.orders = append(h.orders, x.(*Order))
}

func (h *orderHeap) Pop() interface{} {
	old := h.orders
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	h.orders = old[:n-1]
	return x
}

// PriceQueue holds one side of one ticker's book in price-time
// priority. Insert is O(log n), PeekBest O(1).
type PriceQueue struct {
	h orderHeap
}

// NewBidQueue orders by highest price first.
func NewBidQueue() *PriceQueue { return &PriceQueue{h: orderHeap{max: true}} }

// NewAskQueue orders by lowest price first.
func NewAskQueue() *PriceQueue { return &PriceQueue{h: orderHeap{max: false}} }

func (q *PriceQueue) Insert(o *Order) { heap.Push(&q.h, o) }

// PeekBest returns the best-priority order without removing it.
func (q *PriceQueue) PeekBest() (*Order, bool) {
	if len(q.h.orders) == 0 {
		return nil, false
	}
	return q.h.orders[0], true
}

// PopBest removes and returns the best-priority order.
func (q *PriceQueue) PopBest() (*Order, error) {
	if len(q.h.orders) == 0 {
		return nil, ErrEmptyQueue
	}
	return heap.Pop(&q.h).(*Order), nil
}

func (q *PriceQueue) Len() int { return len(q.h.orders) }

func (q *PriceQueue) Empty() bool { return len(q.h.orders) == 0 }

// ordersUnordered exposes the backing slice in heap order, not
// priority order. Depth aggregation groups by price so the ordering
// does not matter.
func (q *PriceQueue) ordersUnordered() []*Order { return q.h.orders }
