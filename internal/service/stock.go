package service

import (
	"context"

	"tradedesk/internal/domain"
	"tradedesk/internal/store"
)

// StockService exposes read access to stock reference data. The engine
// never writes stocks; seeding goes through the store directly.
type StockService struct {
	store store.Store
}

// NewStockService creates a new StockService.
func NewStockService(st store.Store) *StockService {
	return &StockService{store: st}
}

// Get retrieves a stock by ID.
func (s *StockService) Get(ctx context.Context, id string) (*domain.Stock, error) {
	return s.store.Stocks().Get(ctx, id)
}

// GetBySymbol retrieves a stock by its symbol.
func (s *StockService) GetBySymbol(ctx context.Context, symbol string) (*domain.Stock, error) {
	return s.store.Stocks().GetBySymbol(ctx, symbol)
}

// GetBySector returns all stocks in the sector.
func (s *StockService) GetBySector(ctx context.Context, sector string) ([]*domain.Stock, error) {
	return s.store.Stocks().GetBySector(ctx, sector)
}
