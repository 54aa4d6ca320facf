package breakout

import (
	"testing"

	"github.com/Alias1177/Breakout/models"
)

func TestClassify(t *testing.T) {
	c := New(5.0)

	tests := []struct {
		name     string
		fv       models.FeatureVector
		wantTier models.RiskTier
		noTrade  bool
	}{
		{
			name: "strong breakout",
			fv: models.FeatureVector{
				Open: 1.0, High: 1.20, Low: 1.0, Close: 1.18,
				PrevBarRangeRatio: 1.01, LastFiveRangeRatio: 1.05,
			},
			wantTier: models.TierStrong,
		},
		{
			name: "mild breakout after consolidation",
			fv: models.FeatureVector{
				Open: 1.0, High: 1.08, Low: 1.0, Close: 1.07,
				PrevBarRangeRatio: 1.01, LastFiveRangeRatio: 1.01,
			},
			wantTier: models.TierMild,
		},
		{
			name: "mild range without consolidation",
			fv: models.FeatureVector{
				Open: 1.0, High: 1.08, Low: 1.0, Close: 1.07,
				PrevBarRangeRatio: 1.01, LastFiveRangeRatio: 1.06,
			},
			noTrade: true,
		},
		{
			name: "bearish bar",
			fv: models.FeatureVector{
				Open: 1.18, High: 1.20, Low: 1.0, Close: 1.10,
				PrevBarRangeRatio: 1.01, LastFiveRangeRatio: 1.01,
			},
			noTrade: true,
		},
		{
			name: "parabolic bar",
			fv: models.FeatureVector{
				Open: 1.0, High: 1.40, Low: 1.0, Close: 1.35,
				PrevBarRangeRatio: 1.01, LastFiveRangeRatio: 1.01,
			},
			noTrade: true,
		},
		{
			name: "volatile previous minute",
			fv: models.FeatureVector{
				Open: 1.0, High: 1.20, Low: 1.0, Close: 1.18,
				PrevBarRangeRatio: 1.08, LastFiveRangeRatio: 1.01,
			},
			noTrade: true,
		},
		{
			name: "above price ceiling",
			fv: models.FeatureVector{
				Open: 5.0, High: 6.0, Low: 5.0, Close: 5.9,
				PrevBarRangeRatio: 1.01, LastFiveRangeRatio: 1.01,
			},
			noTrade: true,
		},
		{
			name: "missing low",
			fv: models.FeatureVector{
				Open: 1.0, High: 1.2, Low: 0, Close: 1.1,
				PrevBarRangeRatio: 1.01, LastFiveRangeRatio: 1.01,
			},
			noTrade: true,
		},
		{
			name: "flat bar below range floor",
			fv: models.FeatureVector{
				Open: 1.0, High: 1.02, Low: 1.0, Close: 1.01,
				PrevBarRangeRatio: 1.0, LastFiveRangeRatio: 1.0,
			},
			noTrade: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.fv)
			if tt.noTrade {
				if got.Enter {
					t.Fatalf("expected no trade, got %+v", got)
				}
				return
			}
			if !got.Enter {
				t.Fatalf("expected entry, got no trade")
			}
			if got.Tier != tt.wantTier {
				t.Fatalf("expected tier %s, got %s", tt.wantTier, got.Tier)
			}
			if got.ReferencePrice != tt.fv.High {
				t.Fatalf("reference price must be bar high %v, got %v", tt.fv.High, got.ReferencePrice)
			}
		})
	}
}

// The range ratio is truncated, never rounded: 1.299/1.0 must classify as
// 1.29, which stays inside the strong band instead of hitting the ceiling.
func TestClassifyTruncatesRangeRatio(t *testing.T) {
	c := New(5.0)

	got := c.Classify(models.FeatureVector{
		Open: 1.0, High: 1.299, Low: 1.0, Close: 1.25,
		PrevBarRangeRatio: 1.0, LastFiveRangeRatio: 1.05,
	})
	if !got.Enter || got.Tier != models.TierStrong {
		t.Fatalf("1.299/1.0 truncates to 1.29 and must be a strong entry, got %+v", got)
	}
}

// 11.0/10.0 is exactly 1.10: the strong band is strictly above 1.10, so the
// bar can only qualify through the mild branch.
func TestClassifyStrongBoundaryIsStrict(t *testing.T) {
	c := New(50.0)

	tight := c.Classify(models.FeatureVector{
		Open: 10.0, High: 11.0, Low: 10.0, Close: 10.9,
		PrevBarRangeRatio: 1.0, LastFiveRangeRatio: 1.01,
	})
	if !tight.Enter || tight.Tier != models.TierMild {
		t.Fatalf("ratio 1.10 with tight consolidation must be a mild entry, got %+v", tight)
	}

	loose := c.Classify(models.FeatureVector{
		Open: 10.0, High: 11.0, Low: 10.0, Close: 10.9,
		PrevBarRangeRatio: 1.0, LastFiveRangeRatio: 1.05,
	})
	if loose.Enter {
		t.Fatalf("ratio 1.10 without consolidation must be no trade, got %+v", loose)
	}
}

// Property: a non-bullish bar never produces an entry, whatever the ranges.
func TestClassifyBearishAlwaysNoTrade(t *testing.T) {
	c := New(5.0)

	ratios := []float64{0.9, 1.0, 1.02, 1.07, 1.15, 1.29, 1.5}
	for _, prev := range ratios {
		for _, five := range ratios {
			fv := models.FeatureVector{
				Open: 1.2, High: 1.4, Low: 1.1, Close: 1.2,
				PrevBarRangeRatio: prev, LastFiveRangeRatio: five,
			}
			if got := c.Classify(fv); got.Enter {
				t.Fatalf("close <= open must never trade (prev=%v five=%v): %+v", prev, five, got)
			}
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := New(5.0)
	fv := models.FeatureVector{
		Open: 1.0, High: 1.2, Low: 1.0, Close: 1.15,
		PrevBarRangeRatio: 1.02, LastFiveRangeRatio: 1.01,
	}

	first := c.Classify(fv)
	for i := 0; i < 100; i++ {
		if got := c.Classify(fv); got != first {
			t.Fatalf("classification must be deterministic: %+v vs %+v", got, first)
		}
	}
}
