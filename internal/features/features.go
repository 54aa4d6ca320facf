// Package features reduces a symbol's bar window to the fixed feature vector
// the breakout classifier consumes. Pure computation, no collaborator calls.
package features

import (
	"github.com/Alias1177/Breakout/models"
)

// Extract computes the feature vector for one symbol's session window.
//
// The window must be ascending by timestamp; bar order is never changed here.
// Range ratios fall back to 1.0 when there is not enough history, and an
// empty window yields an all-zero price block with PrevBarRangeRatio 0, which
// the classifier treats as no-trade.
func Extract(window models.BarWindow) models.FeatureVector {
	if len(window) == 0 {
		return models.FeatureVector{LastFiveRangeRatio: 1}
	}

	latest := window[len(window)-1]
	fv := models.FeatureVector{
		Open:               latest.Open,
		High:               latest.High,
		Low:                latest.Low,
		Close:              latest.Close,
		Volume:             latest.Volume,
		PrevBarRangeRatio:  1.0,
		LastFiveRangeRatio: 1.0,
	}

	if len(window) == 1 {
		return fv
	}

	prev := window[len(window)-2]
	if prev.Low > 0 {
		fv.PrevBarRangeRatio = prev.High / prev.Low
	}

	if len(window) < 6 {
		// Not enough history for the five-bar range.
		return fv
	}

	// The five bars preceding the latest one.
	recent := window[len(window)-6 : len(window)-1]
	maxHigh := recent[0].High
	minLow := 0.0
	for _, bar := range recent {
		if bar.High > maxHigh {
			maxHigh = bar.High
		}
		if bar.Low > 0 && (minLow == 0 || bar.Low < minLow) {
			minLow = bar.Low
		}
	}
	if minLow > 0 {
		fv.LastFiveRangeRatio = maxHigh / minLow
	}

	return fv
}
