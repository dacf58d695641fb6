// Package api is the order-intake boundary: a REST surface for
// submissions and book queries, plus a WebSocket trade feed. The
// matching core never imports this package; it only sees validated
// submissions arriving through Engine.Submit.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/quantaxe/matchcore/pkg/engine"
	"github.com/quantaxe/matchcore/pkg/sink"
)

// TradeReader serves the recent-trades query. Satisfied by
// *sink.Journal; nil disables the endpoint.
type TradeReader interface {
	Recent(ticker engine.TickerID, limit int) ([]engine.Trade, error)
}

type Server struct {
	engine *engine.Engine
	sinks  sink.TradeSink
	trades TradeReader
	hub    *Hub
	router *mux.Router
	scale  int32
	log    *zap.SugaredLogger
}

func NewServer(e *engine.Engine, sinks sink.TradeSink, trades TradeReader, hub *Hub, priceScale int32, logger *zap.SugaredLogger) *Server {
	s := &Server{
		engine: e,
		sinks:  sinks,
		trades: trades,
		hub:    hub,
		scale:  priceScale,
		log:    logger,
	}
	s.router = mux.NewRouter()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/books/{ticker}", s.handleGetBook).Methods("GET")
	api.HandleFunc("/books/{ticker}/trades", s.handleGetTrades).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the middleware-wrapped handler, exposed separately
// from Start for tests.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

func (s *Server) Start(addr string) error {
	go s.hub.Run()
	s.log.Infow("api server starting", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	side, err := parseSide(req.Side)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	price, err := parsePrice(req.Price, s.scale)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orderID, trades, err := s.engine.Submit(side, engine.TickerID(req.Ticker), req.Quantity, price)
	switch {
	case errors.Is(err, engine.ErrInvalidOrder):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, engine.ErrUnknownTicker):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.log.Errorw("submit failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Trades fan out after the engine has released the shard lock; a
	// slow sink delays this response, never the matching path.
	if len(trades) > 0 {
		if err := s.sinks.Publish(r.Context(), trades); err != nil {
			s.log.Errorw("trade publish failed", "order_id", orderID, "err", err)
		}
	}

	s.writeJSON(w, http.StatusOK, SubmitOrderResponse{
		OrderID: orderID,
		Trades:  toTradeInfo(trades, s.scale),
	})
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	ticker, ok := s.tickerVar(w, r)
	if !ok {
		return
	}

	bids, asks, err := s.engine.Depth(ticker)
	if errors.Is(err, engine.ErrUnknownTicker) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	snap := BookSnapshot{
		Ticker: uint32(ticker),
		Bids:   make([]BookLevel, len(bids)),
		Asks:   make([]BookLevel, len(asks)),
	}
	for i, l := range bids {
		snap.Bids[i] = BookLevel{Price: formatPrice(l.Price, s.scale), Qty: l.Qty}
	}
	for i, l := range asks {
		snap.Asks[i] = BookLevel{Price: formatPrice(l.Price, s.scale), Qty: l.Qty}
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	if s.trades == nil {
		s.writeError(w, http.StatusNotFound, "trade journal not enabled")
		return
	}
	ticker, ok := s.tickerVar(w, r)
	if !ok {
		return
	}
	if uint32(ticker) >= s.engine.TickerSpace() {
		s.writeError(w, http.StatusNotFound, engine.ErrUnknownTicker.Error())
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			s.writeError(w, http.StatusBadRequest, "limit must be in [1, 1000]")
			return
		}
		limit = n
	}

	trades, err := s.trades.Recent(ticker, limit)
	if err != nil {
		s.log.Errorw("trade query failed", "ticker", ticker, "err", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, toTradeInfo(trades, s.scale))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) tickerVar(w http.ResponseWriter, r *http.Request) (engine.TickerID, bool) {
	raw := mux.Vars(r)["ticker"]
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "ticker must be a non-negative integer")
		return 0, false
	}
	return engine.TickerID(n), true
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warnw("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, errorResponse{Error: msg})
}
