package service

import (
	"context"
	"log/slog"

	"tradedesk/internal/domain"
	"tradedesk/internal/engine"
	"tradedesk/internal/store"
)

// TradeService exposes trade execution, matching passes, and trade
// queries. Execution and matching mechanics live in the engine package;
// this service fronts them for the presentation layer.
type TradeService struct {
	store      store.Store
	settlement *engine.Settlement
	matcher    *engine.Matcher
	log        *slog.Logger
}

// NewTradeService creates a new TradeService.
func NewTradeService(st store.Store, settlement *engine.Settlement, matcher *engine.Matcher, log *slog.Logger) *TradeService {
	return &TradeService{store: st, settlement: settlement, matcher: matcher, log: log}
}

// Execute settles the (buy, sell) order pair and returns the trade.
func (s *TradeService) Execute(ctx context.Context, buyOrderID, sellOrderID string) (*domain.Trade, error) {
	return s.settlement.ExecuteTrade(ctx, buyOrderID, sellOrderID)
}

// MatchStock runs one matching pass over the stock's pending orders and
// returns the trades settled during the pass.
func (s *TradeService) MatchStock(ctx context.Context, stockID string) ([]*domain.Trade, error) {
	if _, err := s.store.Stocks().Get(ctx, stockID); err != nil {
		return nil, err
	}
	return s.matcher.MatchStock(ctx, stockID)
}

// Get retrieves a trade by ID.
func (s *TradeService) Get(ctx context.Context, id string) (*domain.Trade, error) {
	return s.store.Trades().Get(ctx, id)
}

// GetByStock returns the stock's trades in execution order.
func (s *TradeService) GetByStock(ctx context.Context, stockID string) ([]*domain.Trade, error) {
	return s.store.Trades().GetByStock(ctx, stockID)
}

// Recent returns up to n trades, most recent first.
func (s *TradeService) Recent(ctx context.Context, n int) ([]*domain.Trade, error) {
	if n < 1 {
		return nil, &domain.ValidationError{Message: "limit must be >= 1"}
	}
	return s.store.Trades().MostRecent(ctx, n)
}
