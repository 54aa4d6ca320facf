// Package orders converts approved trade decisions into fully specified
// stop-limit entry orders.
package orders

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Alias1177/Breakout/models"
)

// Price offsets around the breakout reference level.
const (
	stopOffset  = 1.02
	limitOffset = 1.08
)

// Builder produces GTD stop-limit BUY orders. Expiries are computed in the
// session timezone and expressed in the venue timezone; the two are separate
// configuration so the conversion survives DST transitions instead of a
// hard-coded hour offset.
type Builder struct {
	sessionLoc   *time.Location
	venueLoc     *time.Location
	minutesValid int
	strongRisk   float64
	mildRisk     float64

	now func() time.Time
}

// NewBuilder creates a builder for the given timezones and risk budgets.
func NewBuilder(sessionTZ, venueTZ string, minutesValid int, strongRisk, mildRisk float64) (*Builder, error) {
	sessionLoc, err := time.LoadLocation(sessionTZ)
	if err != nil {
		return nil, fmt.Errorf("loading session timezone %q: %w", sessionTZ, err)
	}
	venueLoc, err := time.LoadLocation(venueTZ)
	if err != nil {
		return nil, fmt.Errorf("loading venue timezone %q: %w", venueTZ, err)
	}

	return &Builder{
		sessionLoc:   sessionLoc,
		venueLoc:     venueLoc,
		minutesValid: minutesValid,
		strongRisk:   strongRisk,
		mildRisk:     mildRisk,
		now:          time.Now,
	}, nil
}

// Build sizes and prices an entry order for the decision. The second return
// is false when no order should be sent, which happens when the computed
// quantity rounds to zero; that is a silent no-op, not an error.
func (b *Builder) Build(symbol string, decision models.TradeDecision) (models.OrderSpec, bool) {
	if !decision.Enter {
		return models.OrderSpec{}, false
	}

	dollarRisk := b.mildRisk
	if decision.Tier == models.TierStrong {
		dollarRisk = b.strongRisk
	}

	stopPrice := round2(stopOffset * decision.ReferencePrice)
	limitPrice := round2(limitOffset * decision.ReferencePrice)
	quantity := int(dollarRisk / math.Max(stopPrice, 0.01))
	if quantity <= 0 {
		return models.OrderSpec{}, false
	}

	return models.OrderSpec{
		ClientOrderID: uuid.NewString(),
		Symbol:        symbol,
		Side:          models.SideBuy,
		StopPrice:     stopPrice,
		LimitPrice:    limitPrice,
		Quantity:      quantity,
		TimeInForce:   "GTD",
		GoodTillDate:  b.expiry(),
		OutsideRTH:    true,
		Tier:          decision.Tier,
	}, true
}

// expiry is minutesValid past the start of the current session minute,
// expressed in venue time.
func (b *Builder) expiry() time.Time {
	now := b.now().In(b.sessionLoc)
	startOfMinute := time.Date(
		now.Year(), now.Month(), now.Day(),
		now.Hour(), now.Minute(), 0, 0, b.sessionLoc,
	)
	return startOfMinute.Add(time.Duration(b.minutesValid) * time.Minute).In(b.venueLoc)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
