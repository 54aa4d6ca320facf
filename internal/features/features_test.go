package features

import (
	"testing"
	"time"

	"github.com/Alias1177/Breakout/models"
)

func makeWindow(n int, build func(i int) models.Bar) models.BarWindow {
	window := make(models.BarWindow, n)
	base := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		bar := build(i)
		bar.Timestamp = base.Add(time.Duration(i) * time.Minute)
		window[i] = bar
	}
	return window
}

func TestExtractEmptyWindow(t *testing.T) {
	fv := Extract(nil)

	if fv.Open != 0 || fv.High != 0 || fv.Low != 0 || fv.Close != 0 || fv.Volume != 0 {
		t.Fatalf("expected zero price block, got %+v", fv)
	}
	if fv.PrevBarRangeRatio != 0 {
		t.Fatalf("expected PrevBarRangeRatio 0, got %v", fv.PrevBarRangeRatio)
	}
	if fv.LastFiveRangeRatio != 1 {
		t.Fatalf("expected LastFiveRangeRatio sentinel 1, got %v", fv.LastFiveRangeRatio)
	}
}

func TestExtractSingleBar(t *testing.T) {
	window := makeWindow(1, func(i int) models.Bar {
		return models.Bar{Open: 1.5, High: 2.0, Low: 1.4, Close: 1.9, Volume: 12000}
	})

	fv := Extract(window)

	if fv.Open != 1.5 || fv.High != 2.0 || fv.Low != 1.4 || fv.Close != 1.9 || fv.Volume != 12000 {
		t.Fatalf("expected latest bar OHLCV, got %+v", fv)
	}
	if fv.PrevBarRangeRatio != 1.0 {
		t.Fatalf("expected PrevBarRangeRatio 1.0, got %v", fv.PrevBarRangeRatio)
	}
	if fv.LastFiveRangeRatio != 1.0 {
		t.Fatalf("expected LastFiveRangeRatio 1.0, got %v", fv.LastFiveRangeRatio)
	}
}

func TestExtractShortHistory(t *testing.T) {
	// Three bars: previous bar has high=2.2, low=2.0.
	window := makeWindow(3, func(i int) models.Bar {
		switch i {
		case 1:
			return models.Bar{Open: 2.0, High: 2.2, Low: 2.0, Close: 2.1, Volume: 500}
		default:
			return models.Bar{Open: 2.1, High: 2.5, Low: 2.1, Close: 2.4, Volume: 800}
		}
	})

	fv := Extract(window)

	if fv.Close != 2.4 {
		t.Fatalf("expected latest close 2.4, got %v", fv.Close)
	}
	want := 2.2 / 2.0
	if fv.PrevBarRangeRatio != want {
		t.Fatalf("expected PrevBarRangeRatio %v, got %v", want, fv.PrevBarRangeRatio)
	}
	if fv.LastFiveRangeRatio != 1.0 {
		t.Fatalf("short history must keep LastFiveRangeRatio at 1.0, got %v", fv.LastFiveRangeRatio)
	}
}

func TestExtractShortHistoryZeroPrevLow(t *testing.T) {
	window := makeWindow(2, func(i int) models.Bar {
		if i == 0 {
			return models.Bar{Open: 0, High: 1.0, Low: 0, Close: 0.5}
		}
		return models.Bar{Open: 1.0, High: 1.2, Low: 0.9, Close: 1.1}
	})

	fv := Extract(window)

	if fv.PrevBarRangeRatio != 1.0 {
		t.Fatalf("zero previous low must fall back to 1.0, got %v", fv.PrevBarRangeRatio)
	}
}

func TestExtractFullHistory(t *testing.T) {
	// Seven bars. The five preceding the last are indexes 1..5 with
	// highs 2.0..2.4 and lows 1.0..1.4, so the five-bar ratio is 2.4/1.0.
	window := makeWindow(7, func(i int) models.Bar {
		return models.Bar{
			Open:   1.0 + float64(i)*0.1,
			High:   1.9 + float64(i)*0.1,
			Low:    0.9 + float64(i)*0.1,
			Close:  1.5 + float64(i)*0.1,
			Volume: int64(100 * (i + 1)),
		}
	})

	fv := Extract(window)

	prev := window[5]
	wantPrev := prev.High / prev.Low
	if fv.PrevBarRangeRatio != wantPrev {
		t.Fatalf("expected PrevBarRangeRatio %v, got %v", wantPrev, fv.PrevBarRangeRatio)
	}
	wantFive := 2.4 / 1.0
	if diff := fv.LastFiveRangeRatio - wantFive; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected LastFiveRangeRatio %v, got %v", wantFive, fv.LastFiveRangeRatio)
	}
	if fv.Close != window[6].Close {
		t.Fatalf("expected latest close %v, got %v", window[6].Close, fv.Close)
	}
}

func TestExtractFullHistorySkipsZeroLows(t *testing.T) {
	window := makeWindow(7, func(i int) models.Bar {
		low := 1.0
		if i == 2 || i == 3 {
			low = 0 // halted or bad print
		}
		return models.Bar{Open: 1.0, High: 2.0, Low: low, Close: 1.5}
	})

	fv := Extract(window)

	// Zero lows are excluded from the minimum; remaining lows are 1.0.
	if fv.LastFiveRangeRatio != 2.0 {
		t.Fatalf("expected LastFiveRangeRatio 2.0, got %v", fv.LastFiveRangeRatio)
	}
}

func TestExtractFullHistoryAllZeroLows(t *testing.T) {
	window := makeWindow(7, func(i int) models.Bar {
		low := 0.0
		if i == 0 || i == 6 {
			low = 1.0 // every bar inside the five-bar span lacks a low
		}
		return models.Bar{Open: 1.0, High: 2.0, Low: low, Close: 1.5}
	})

	fv := Extract(window)

	if fv.LastFiveRangeRatio != 1.0 {
		t.Fatalf("no usable low in the five-bar span must yield 1.0, got %v", fv.LastFiveRangeRatio)
	}
}
