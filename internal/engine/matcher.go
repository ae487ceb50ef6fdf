package engine

import (
	"context"
	"log/slog"

	"tradedesk/internal/domain"
	"tradedesk/internal/store"
)

// Matcher pairs pending buy and sell orders for a stock and hands each
// pair to the settlement coordinator.
type Matcher struct {
	store      store.Store
	settlement *Settlement
	log        *slog.Logger
}

// NewMatcher creates a Matcher over the given store and settlement
// coordinator.
func NewMatcher(st store.Store, settlement *Settlement, log *slog.Logger) *Matcher {
	return &Matcher{store: st, settlement: settlement, log: log}
}

// MatchStock runs one matching pass over the stock's pending orders.
// Orders are retrieved most recently created first and partitioned by
// side in that order. Each buy order is paired with the first compatible
// sell order still in the candidate pool; a settled sell is consumed and
// never proposed again within the pass. A pair whose settlement fails is
// logged and skipped, leaving the sell available for later buys.
//
// Returns the trades settled during the pass.
func (m *Matcher) MatchStock(ctx context.Context, stockID string) ([]*domain.Trade, error) {
	pending, err := m.store.Orders().GetByStockAndStatus(ctx, stockID, domain.OrderStatusPending)
	if err != nil {
		return nil, err
	}

	var buys, sells []*domain.Order
	for _, o := range pending {
		if o.Side == domain.OrderSideBuy {
			buys = append(buys, o)
		} else {
			sells = append(sells, o)
		}
	}

	trades := make([]*domain.Trade, 0)
	consumed := make(map[string]bool) // sell order ids settled this pass

	for _, buy := range buys {
		for _, sell := range sells {
			if consumed[sell.ID] || !compatible(buy, sell) {
				continue
			}

			trade, err := m.settlement.ExecuteTrade(ctx, buy.ID, sell.ID)
			if err != nil {
				m.log.Warn("settlement failed during matching pass",
					slog.String("stock_id", stockID),
					slog.String("buy_order_id", buy.ID),
					slog.String("sell_order_id", sell.ID),
					slog.String("error", err.Error()),
				)
				break
			}

			trades = append(trades, trade)
			consumed[sell.ID] = true
			break
		}
	}

	m.log.Debug("matching pass complete",
		slog.String("stock_id", stockID),
		slog.Int("pending_orders", len(pending)),
		slog.Int("trades", len(trades)),
	)
	return trades, nil
}

// compatible reports whether a buy and sell order can trade: a MARKET
// order on either side is always compatible, otherwise the buy price
// must be at or above the sell price.
func compatible(buy, sell *domain.Order) bool {
	if buy.Kind == domain.OrderKindMarket || sell.Kind == domain.OrderKindMarket {
		return true
	}
	return buy.Price.GreaterThanOrEqual(sell.Price)
}
