// Package engine implements the matching engine and the settlement
// coordinator. Matching pairs pending buy and sell orders for a stock;
// settlement turns one pair into a trade and propagates its effects to
// orders, portfolios, and account balances as a single unit of work.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradedesk/internal/domain"
	"tradedesk/internal/store"
)

// Settlement executes matched order pairs. Every execution runs inside
// store.Atomic with all preconditions re-validated before the first
// write, so a trade is either fully settled or not recorded at all, and
// each order pair settles at most once.
type Settlement struct {
	store store.Store
	log   *slog.Logger
}

// NewSettlement creates a Settlement over the given store.
func NewSettlement(st store.Store, log *slog.Logger) *Settlement {
	return &Settlement{store: st, log: log}
}

// ExecuteTrade settles the (buy, sell) order pair: records a trade for
// quantity min(buy.Quantity, sell.Quantity) at the sell order's price,
// transitions both orders to EXECUTED, credits the buyer's holding,
// debits the seller's holding, and moves quantity×price between the two
// account balances.
//
// The buyer's balance and the seller's position are re-validated inside
// the unit of work immediately before settlement, closing the gap
// between the placement-time balance check and the eventual debit.
func (s *Settlement) ExecuteTrade(ctx context.Context, buyOrderID, sellOrderID string) (*domain.Trade, error) {
	var trade *domain.Trade

	err := s.store.Atomic(ctx, func(tx store.Store) error {
		buy, err := tx.Orders().Get(ctx, buyOrderID)
		if err != nil {
			return err
		}
		sell, err := tx.Orders().Get(ctx, sellOrderID)
		if err != nil {
			return err
		}

		if buy.StockID != sell.StockID {
			return domain.ErrMismatchedStocks
		}
		if buy.Side != domain.OrderSideBuy || sell.Side != domain.OrderSideSell {
			return domain.ErrInvalidOrderSides
		}
		if buy.Status != domain.OrderStatusPending || sell.Status != domain.OrderStatusPending {
			return domain.ErrOrderNotPending
		}

		qty := min(buy.Quantity, sell.Quantity)
		price := sell.Price // persisted orders always carry a price
		amount := price.Mul(decimal.NewFromInt(qty))

		// Re-validate everything that can fail before the first write.
		buyer, err := tx.Accounts().Get(ctx, buy.AccountID)
		if err != nil {
			return err
		}
		if _, err := tx.Accounts().Get(ctx, sell.AccountID); err != nil {
			return err
		}
		held, err := tx.Holdings().GetByAccountAndStock(ctx, sell.AccountID, sell.StockID)
		if errors.Is(err, domain.ErrHoldingNotFound) {
			return domain.ErrNoHoldings
		}
		if err != nil {
			return err
		}
		if held.Quantity < qty {
			return domain.ErrInsufficientHoldings
		}
		if buyer.Balance.LessThan(amount) {
			return domain.ErrInsufficientBalance
		}

		// Claim both orders. A failed transition means a concurrent
		// settlement or cancellation won the race.
		if _, err := tx.Orders().Transition(ctx, buy.ID, domain.OrderStatusPending, domain.OrderStatusExecuted); err != nil {
			return asConflict(err)
		}
		if _, err := tx.Orders().Transition(ctx, sell.ID, domain.OrderStatusPending, domain.OrderStatusExecuted); err != nil {
			return asConflict(err)
		}

		trade = &domain.Trade{
			ID:          uuid.New().String(),
			BuyOrderID:  buy.ID,
			SellOrderID: sell.ID,
			StockID:     buy.StockID,
			Quantity:    qty,
			Price:       price,
			ExecutedAt:  time.Now(),
		}
		if err := tx.Trades().Insert(ctx, trade); err != nil {
			return err
		}

		if _, err := applyBuy(ctx, tx.Holdings(), buy.AccountID, buy.StockID, qty, price); err != nil {
			return err
		}
		if _, err := applySell(ctx, tx.Holdings(), sell.AccountID, sell.StockID, qty); err != nil {
			return err
		}

		buyer.Balance = buyer.Balance.Sub(amount)
		if err := tx.Accounts().Save(ctx, buyer); err != nil {
			return err
		}
		// Both sides may belong to the same account. Load the seller
		// after the debit so the credit applies on top of it.
		seller, err := tx.Accounts().Get(ctx, sell.AccountID)
		if err != nil {
			return err
		}
		seller.Balance = seller.Balance.Add(amount)
		return tx.Accounts().Save(ctx, seller)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("trade executed",
		slog.String("trade_id", trade.ID),
		slog.String("buy_order_id", buyOrderID),
		slog.String("sell_order_id", sellOrderID),
		slog.Int64("quantity", trade.Quantity),
		slog.String("price", trade.Price.String()),
	)
	return trade, nil
}

// asConflict maps a lost order transition to the conflict error kind.
func asConflict(err error) error {
	if errors.Is(err, domain.ErrOrderNotPending) {
		return domain.ErrSettlementConflict
	}
	return err
}
