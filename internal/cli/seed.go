package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tradedesk/internal/domain"
	"tradedesk/internal/service"
	"tradedesk/internal/store"
)

// seedStocks is the reference data loaded by the seed command. Prices
// are starting quotes, not live data.
var seedStocks = []struct {
	symbol string
	name   string
	sector string
	price  string
}{
	{"AAPL", "Apple Inc.", "Technology", "185.50"},
	{"GOOGL", "Alphabet Inc.", "Technology", "142.30"},
	{"MSFT", "Microsoft Corporation", "Technology", "415.20"},
	{"JPM", "JPMorgan Chase & Co.", "Financials", "198.75"},
	{"GS", "The Goldman Sachs Group, Inc.", "Financials", "462.10"},
	{"JNJ", "Johnson & Johnson", "Healthcare", "156.40"},
	{"XOM", "Exxon Mobil Corporation", "Energy", "113.85"},
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load reference stocks and demo accounts into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			st, closeStore, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			return runSeed(cmd.Context(), st, logger)
		},
	}
}

func runSeed(ctx context.Context, st store.Store, logger *slog.Logger) error {
	now := time.Now().UTC()

	for _, s := range seedStocks {
		_, err := st.Stocks().GetBySymbol(ctx, s.symbol)
		if err == nil {
			logger.Info("stock already seeded", slog.String("symbol", s.symbol))
			continue
		}
		if !errors.Is(err, domain.ErrStockNotFound) {
			return fmt.Errorf("check stock %s: %w", s.symbol, err)
		}

		price, err := decimal.NewFromString(s.price)
		if err != nil {
			return fmt.Errorf("parse price for %s: %w", s.symbol, err)
		}
		stock := &domain.Stock{
			ID:           uuid.NewString(),
			Symbol:       s.symbol,
			Name:         s.name,
			Sector:       s.sector,
			CurrentPrice: price,
			LastUpdated:  now,
		}
		if err := st.Stocks().Save(ctx, stock); err != nil {
			return fmt.Errorf("save stock %s: %w", s.symbol, err)
		}
		logger.Info("stock seeded",
			slog.String("symbol", s.symbol),
			slog.String("stock_id", stock.ID),
		)
	}

	accountSvc := service.NewAccountService(st, logger)
	for _, owner := range []string{"demo-alice", "demo-bob"} {
		existing, err := st.Accounts().GetByOwner(ctx, owner)
		if err != nil {
			return fmt.Errorf("check accounts for %s: %w", owner, err)
		}
		if len(existing) > 0 {
			logger.Info("account already seeded", slog.String("owner_id", owner))
			continue
		}

		account, err := accountSvc.Create(ctx, owner, domain.AccountKindCash, decimal.NewFromInt(100000))
		if err != nil {
			return fmt.Errorf("create account for %s: %w", owner, err)
		}
		logger.Info("account seeded",
			slog.String("owner_id", owner),
			slog.String("account_id", account.ID),
			slog.String("account_number", account.AccountNumber),
		)
	}

	return nil
}
