package api

// Request/response types for the REST and WebSocket surface. Prices
// cross the wire as decimal strings and live inside the engine as
// integer ticks; conversion happens here and nowhere else.

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quantaxe/matchcore/pkg/engine"
)

// SubmitOrderRequest is the POST /api/v1/orders body.
type SubmitOrderRequest struct {
	Side     string `json:"side"`   // "buy" or "sell"
	Ticker   uint32 `json:"ticker"` // [0, ticker space)
	Quantity int64  `json:"quantity"`
	Price    string `json:"price"` // decimal, e.g. "101.25"
}

type SubmitOrderResponse struct {
	OrderID uint64      `json:"orderId"`
	Trades  []TradeInfo `json:"trades"`
}

// TradeInfo is one fill as reported to API and WebSocket consumers.
type TradeInfo struct {
	Ticker      uint32 `json:"ticker"`
	Quantity    int64  `json:"quantity"`
	Price       string `json:"price"`
	BuyOrderID  uint64 `json:"buyOrderId"`
	SellOrderID uint64 `json:"sellOrderId"`
}

// BookSnapshot is the GET /api/v1/books/{ticker} response. Bids sort
// high to low, asks low to high, both best-first.
type BookSnapshot struct {
	Ticker uint32      `json:"ticker"`
	Bids   []BookLevel `json:"bids"`
	Asks   []BookLevel `json:"asks"`
}

type BookLevel struct {
	Price string `json:"price"`
	Qty   int64  `json:"qty"`
}

// TradeUpdate is broadcast to WebSocket clients on every fill.
type TradeUpdate struct {
	Type  string    `json:"type"` // always "trade"
	Trade TradeInfo `json:"trade"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// parsePrice converts a decimal price string to engine ticks at the
// given scale (decimal places per tick). Prices finer than the tick
// size are rejected rather than rounded.
func parsePrice(s string, scale int32) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	shifted := d.Shift(scale)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("price %q finer than tick size (%d decimal places)", s, scale)
	}
	if !shifted.BigInt().IsInt64() {
		return 0, fmt.Errorf("price %q out of range", s)
	}
	return shifted.IntPart(), nil
}

// formatPrice renders engine ticks back as a decimal string.
func formatPrice(ticks int64, scale int32) string {
	return decimal.New(ticks, -scale).String()
}

func parseSide(s string) (engine.Side, error) {
	switch s {
	case "buy":
		return engine.Buy, nil
	case "sell":
		return engine.Sell, nil
	default:
		return 0, fmt.Errorf("invalid side %q: must be \"buy\" or \"sell\"", s)
	}
}

func toTradeInfo(trades []engine.Trade, scale int32) []TradeInfo {
	out := make([]TradeInfo, len(trades))
	for i, t := range trades {
		out[i] = TradeInfo{
			Ticker:      uint32(t.Ticker),
			Quantity:    t.Qty,
			Price:       formatPrice(t.Price, scale),
			BuyOrderID:  t.BuyOrderID,
			SellOrderID: t.SellOrderID,
		}
	}
	return out
}
