package engine

import (
	"context"
	"testing"
	"time"

	"tradedesk/internal/domain"
)

func TestMatchStock_PairsCompatibleOrders(t *testing.T) {
	_, matcher, st := newTestEngine()
	ctx := context.Background()
	now := time.Now()

	seedAccount(t, st, "buyer", "10000")
	seedAccount(t, st, "seller", "0")
	seedHolding(t, st, "seller", "stock-1", 10, "90")
	seedOrder(t, st, "buy-1", "buyer", "stock-1", domain.OrderSideBuy, domain.OrderKindLimit, "110", 10, now)
	seedOrder(t, st, "sell-1", "seller", "stock-1", domain.OrderSideSell, domain.OrderKindLimit, "100", 10, now.Add(time.Second))

	trades, err := matcher.MatchStock(ctx, "stock-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if !trades[0].Price.Equal(dec(t, "100")) {
		t.Errorf("expected execution at sell price 100, got %s", trades[0].Price)
	}
}

func TestMatchStock_BuyBelowSellDoesNotMatch(t *testing.T) {
	_, matcher, st := newTestEngine()
	now := time.Now()

	seedAccount(t, st, "buyer", "10000")
	seedAccount(t, st, "seller", "0")
	seedHolding(t, st, "seller", "stock-1", 10, "90")
	seedOrder(t, st, "buy-1", "buyer", "stock-1", domain.OrderSideBuy, domain.OrderKindLimit, "99", 10, now)
	seedOrder(t, st, "sell-1", "seller", "stock-1", domain.OrderSideSell, domain.OrderKindLimit, "100", 10, now)

	trades, err := matcher.MatchStock(context.Background(), "stock-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected no trades, got %d", len(trades))
	}
}

func TestMatchStock_MarketBuyMatchesAnySell(t *testing.T) {
	_, matcher, st := newTestEngine()
	now := time.Now()

	seedAccount(t, st, "buyer", "10000")
	seedAccount(t, st, "seller", "0")
	seedHolding(t, st, "seller", "stock-1", 10, "90")
	// MARKET orders carry the snapshotted price; far below the ask here.
	seedOrder(t, st, "buy-1", "buyer", "stock-1", domain.OrderSideBuy, domain.OrderKindMarket, "50", 10, now)
	seedOrder(t, st, "sell-1", "seller", "stock-1", domain.OrderSideSell, domain.OrderKindLimit, "100", 10, now)

	trades, err := matcher.MatchStock(context.Background(), "stock-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
}

func TestMatchStock_SellConsumedOncePerPass(t *testing.T) {
	_, matcher, st := newTestEngine()
	ctx := context.Background()
	now := time.Now()

	seedAccount(t, st, "buyer-1", "10000")
	seedAccount(t, st, "buyer-2", "10000")
	seedAccount(t, st, "seller", "0")
	seedHolding(t, st, "seller", "stock-1", 5, "90")
	seedOrder(t, st, "buy-1", "buyer-1", "stock-1", domain.OrderSideBuy, domain.OrderKindLimit, "110", 5, now)
	seedOrder(t, st, "buy-2", "buyer-2", "stock-1", domain.OrderSideBuy, domain.OrderKindLimit, "110", 5, now.Add(time.Second))
	seedOrder(t, st, "sell-1", "seller", "stock-1", domain.OrderSideSell, domain.OrderKindLimit, "100", 5, now.Add(2*time.Second))

	trades, err := matcher.MatchStock(ctx, "stock-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected exactly 1 trade for a single sell, got %d", len(trades))
	}

	// One buy settled, the other still pending.
	var pending int
	for _, id := range []string{"buy-1", "buy-2"} {
		o, _ := st.Orders().Get(ctx, id)
		if o.Status == domain.OrderStatusPending {
			pending++
		}
	}
	if pending != 1 {
		t.Errorf("expected 1 buy still pending, got %d", pending)
	}
}

func TestMatchStock_FailedSettlementSkipsBuy(t *testing.T) {
	_, matcher, st := newTestEngine()
	ctx := context.Background()
	now := time.Now()

	// First buy (newest) cannot afford the sell; second can.
	seedAccount(t, st, "broke", "10")
	seedAccount(t, st, "funded", "10000")
	seedAccount(t, st, "seller", "0")
	seedHolding(t, st, "seller", "stock-1", 5, "90")
	seedOrder(t, st, "buy-funded", "funded", "stock-1", domain.OrderSideBuy, domain.OrderKindLimit, "110", 5, now)
	seedOrder(t, st, "buy-broke", "broke", "stock-1", domain.OrderSideBuy, domain.OrderKindLimit, "110", 5, now.Add(time.Second))
	seedOrder(t, st, "sell-1", "seller", "stock-1", domain.OrderSideSell, domain.OrderKindLimit, "100", 5, now.Add(2*time.Second))

	trades, err := matcher.MatchStock(ctx, "stock-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].BuyOrderID != "buy-funded" {
		t.Errorf("expected funded buy to settle, got %s", trades[0].BuyOrderID)
	}

	broke, _ := st.Orders().Get(ctx, "buy-broke")
	if broke.Status != domain.OrderStatusPending {
		t.Errorf("expected underfunded buy left PENDING, got %s", broke.Status)
	}
}

func TestMatchStock_NoPendingOrders(t *testing.T) {
	_, matcher, _ := newTestEngine()

	trades, err := matcher.MatchStock(context.Background(), "stock-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected no trades, got %d", len(trades))
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name     string
		buyKind  domain.OrderKind
		sellKind domain.OrderKind
		buyPrice string
		askPrice string
		want     bool
	}{
		{"limit buy above ask", domain.OrderKindLimit, domain.OrderKindLimit, "101", "100", true},
		{"limit buy at ask", domain.OrderKindLimit, domain.OrderKindLimit, "100", "100", true},
		{"limit buy below ask", domain.OrderKindLimit, domain.OrderKindLimit, "99", "100", false},
		{"market buy below ask", domain.OrderKindMarket, domain.OrderKindLimit, "1", "100", true},
		{"market sell above bid", domain.OrderKindLimit, domain.OrderKindMarket, "1", "100", true},
		{"stop loss priced like limit", domain.OrderKindStopLoss, domain.OrderKindLimit, "99", "100", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buy := &domain.Order{Side: domain.OrderSideBuy, Kind: tt.buyKind, Price: dec(t, tt.buyPrice)}
			sell := &domain.Order{Side: domain.OrderSideSell, Kind: tt.sellKind, Price: dec(t, tt.askPrice)}
			if got := compatible(buy, sell); got != tt.want {
				t.Errorf("compatible() = %v, want %v", got, tt.want)
			}
		})
	}
}
