package orders

import (
	"testing"
	"time"

	"github.com/Alias1177/Breakout/models"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder("America/New_York", "UTC", 3, 10, 5)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

func TestBuildStrongSizing(t *testing.T) {
	b := newTestBuilder(t)

	order, ok := b.Build("ABCD", models.TradeDecision{
		Enter: true, Tier: models.TierStrong, ReferencePrice: 2.00,
	})
	if !ok {
		t.Fatalf("expected an order")
	}

	if order.StopPrice != 2.04 {
		t.Fatalf("expected stop 2.04, got %v", order.StopPrice)
	}
	if order.LimitPrice != 2.16 {
		t.Fatalf("expected limit 2.16, got %v", order.LimitPrice)
	}
	if order.Quantity != 4 { // floor(10 / 2.04)
		t.Fatalf("expected quantity 4, got %d", order.Quantity)
	}
	if order.Side != models.SideBuy {
		t.Fatalf("expected BUY, got %s", order.Side)
	}
	if order.TimeInForce != "GTD" {
		t.Fatalf("expected GTD, got %s", order.TimeInForce)
	}
	if !order.OutsideRTH {
		t.Fatalf("expected outside-RTH orders")
	}
	if order.ClientOrderID == "" {
		t.Fatalf("expected a client order ID")
	}
}

func TestBuildMildUsesSmallerRisk(t *testing.T) {
	b := newTestBuilder(t)

	order, ok := b.Build("ABCD", models.TradeDecision{
		Enter: true, Tier: models.TierMild, ReferencePrice: 2.00,
	})
	if !ok {
		t.Fatalf("expected an order")
	}
	if order.Quantity != 2 { // floor(5 / 2.04)
		t.Fatalf("expected quantity 2, got %d", order.Quantity)
	}
}

func TestBuildZeroQuantityIsNoOp(t *testing.T) {
	b := newTestBuilder(t)

	// Stop lands at 20.40; a 10-dollar budget buys nothing.
	_, ok := b.Build("PRCY", models.TradeDecision{
		Enter: true, Tier: models.TierStrong, ReferencePrice: 20.00,
	})
	if ok {
		t.Fatalf("quantity rounding to zero must produce no order")
	}
}

func TestBuildNoTradeIsNoOp(t *testing.T) {
	b := newTestBuilder(t)

	if _, ok := b.Build("ABCD", models.NoTrade); ok {
		t.Fatalf("no-trade decision must produce no order")
	}
}

func TestExpiryConvertsSessionToVenueTime(t *testing.T) {
	b := newTestBuilder(t)
	// 2026-07-06 10:15:42 UTC == 06:15:42 in New York (EDT, UTC-4).
	b.now = func() time.Time {
		return time.Date(2026, 7, 6, 10, 15, 42, 0, time.UTC)
	}

	order, ok := b.Build("ABCD", models.TradeDecision{
		Enter: true, Tier: models.TierStrong, ReferencePrice: 2.00,
	})
	if !ok {
		t.Fatalf("expected an order")
	}

	// Start of minute 06:15 session time, plus 3 minutes, back in UTC.
	want := time.Date(2026, 7, 6, 10, 18, 0, 0, time.UTC)
	if !order.GoodTillDate.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, order.GoodTillDate)
	}
}

func TestExpiryTruncatesSeconds(t *testing.T) {
	b := newTestBuilder(t)
	b.now = func() time.Time {
		return time.Date(2026, 1, 12, 14, 30, 59, 999_000_000, time.UTC)
	}

	order, _ := b.Build("ABCD", models.TradeDecision{
		Enter: true, Tier: models.TierMild, ReferencePrice: 1.00,
	})

	if s := order.GoodTillDate.Second(); s != 0 {
		t.Fatalf("expiry must sit on a minute boundary, got second %d", s)
	}
}
