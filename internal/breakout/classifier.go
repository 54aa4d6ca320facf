// Package breakout holds the deterministic entry rule. Classification is a
// pure function of the feature vector; all collaborator I/O happens upstream.
package breakout

import (
	"math"

	"github.com/Alias1177/Breakout/models"
)

// Classification thresholds. Boundary operators are strict on purpose; moving
// any of them shifts which bars qualify.
const (
	rangeFloor       = 1.05 // minimum intrabar expansion for any entry
	strongRangeFloor = 1.10 // strong tier requires more than this
	rangeCeiling     = 1.30 // beyond this the move is parabolic, skip
	prevRangeMax     = 1.05 // previous minute must not have been volatile
	consolidationMax = 1.03 // mild tier requires a tight last-five range
)

// Classifier maps feature vectors to trade decisions.
type Classifier struct {
	// PriceCeiling excludes symbols trading above it; the strategy only
	// targets low-priced equities.
	PriceCeiling float64
}

// New creates a classifier with the given price ceiling.
func New(priceCeiling float64) *Classifier {
	return &Classifier{PriceCeiling: priceCeiling}
}

// Classify applies the breakout rule to one feature vector.
//
// The intrabar range ratio is truncated to two decimals, not rounded, so a
// bar sitting just under a boundary never qualifies through rounding.
func (c *Classifier) Classify(fv models.FeatureVector) models.TradeDecision {
	if fv.High <= 0 || fv.Low <= 0 {
		return models.NoTrade
	}

	barRangeRatio := math.Floor(fv.High/fv.Low*100) / 100

	// Sanity and risk filters.
	if fv.Close <= fv.Open {
		return models.NoTrade
	}
	if barRangeRatio > rangeCeiling {
		return models.NoTrade
	}
	if fv.PrevBarRangeRatio > prevRangeMax {
		return models.NoTrade
	}
	if fv.Close > c.PriceCeiling {
		return models.NoTrade
	}

	switch {
	case strongRangeFloor < barRangeRatio && barRangeRatio < rangeCeiling:
		return models.TradeDecision{Enter: true, Tier: models.TierStrong, ReferencePrice: fv.High}
	case barRangeRatio > rangeFloor && fv.LastFiveRangeRatio < consolidationMax:
		// Mild expansion out of a tight consolidation.
		return models.TradeDecision{Enter: true, Tier: models.TierMild, ReferencePrice: fv.High}
	default:
		return models.NoTrade
	}
}
