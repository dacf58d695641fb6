package engine

import "sync"

// shard is a lock-granularity unit, not an identity unit: it holds the
// books of every ticker that hashes to it, keyed by full ticker id, so
// colliding tickers never share a book. Submissions on tickers in
// different shards proceed in parallel; submissions on the same ticker
// serialize on the shard mutex, which makes insert-plus-match atomic
// per ticker.
type shard struct {
	mu    sync.Mutex
	books map[TickerID]*book
}

// bookFor returns the ticker's book, creating it on first use. Caller
// must hold mu.
func (s *shard) bookFor(ticker TickerID) *book {
	b, ok := s.books[ticker]
	if !ok {
		b = newBook()
		s.books[ticker] = b
	}
	return b
}
