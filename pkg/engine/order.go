package engine

import "errors"

type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// TickerID identifies one tradable instrument. Each ticker has an
// independent book.
type TickerID uint32

// Order is one resting or incoming intent to trade. Qty is the only
// field that changes after creation: it is reduced in place on partial
// fills, and the order leaves its queue when it hits zero. Sequence is
// assigned once at submission and survives reinsertion, so a partially
// filled order keeps its time priority.
type Order struct {
	ID       uint64
	Ticker   TickerID
	Side     Side
	Price    int64 // integer ticks
	Qty      int64 // integer lots remaining
	Sequence uint64
}

// Trade is one fill between a resting bid and a resting ask.
type Trade struct {
	Ticker      TickerID `json:"ticker"`
	Qty         int64    `json:"qty"`
	Price       int64    `json:"price"`
	BuyOrderID  uint64   `json:"buyOrderId"`
	SellOrderID uint64   `json:"sellOrderId"`
}

var (
	// ErrInvalidOrder rejects non-positive quantity or price before any
	// book state is touched.
	ErrInvalidOrder = errors.New("order quantity and price must be positive")

	// ErrUnknownTicker rejects ticker ids outside the configured space.
	ErrUnknownTicker = errors.New("ticker outside configured space")

	// ErrEmptyQueue is returned by PopBest on an empty queue. The
	// matcher checks emptiness first, so seeing this from Submit means
	// a bug in the matcher's guards, not bad input.
	ErrEmptyQueue = errors.New("price queue is empty")
)
