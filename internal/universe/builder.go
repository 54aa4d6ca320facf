package universe

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Alias1177/Breakout/internal/gateway"
	"github.com/Alias1177/Breakout/models"
)

// BuilderOptions holds the selection thresholds.
type BuilderOptions struct {
	PriceMin     float64
	PriceMax     float64
	MarketCapMin float64
	MarketCapMax float64
	MinAvgVolume float64
	// RequestsPerSec paces broker calls; fundamentals requests are slow on
	// the broker side and hammering them gets the session throttled.
	RequestsPerSec int
}

// Builder selects the low-float, micro-cap universe: pull price, market cap
// and average volume per candidate, filter, enrich survivors with float
// shares, and write the CSV the scanner consumes.
type Builder struct {
	funda   gateway.Fundamentals
	opts    BuilderOptions
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewBuilder creates a builder over the fundamentals gateway.
func NewBuilder(funda gateway.Fundamentals, opts BuilderOptions) *Builder {
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}
	return &Builder{
		funda:   funda,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(time.Second), opts.RequestsPerSec),
		logger:  log.With().Str("component", "universe_builder").Logger(),
	}
}

// tickerEntry is one value in the candidate tickers JSON mapping.
type tickerEntry struct {
	Ticker string `json:"ticker"`
}

// LoadTickers reads candidate tickers from a JSON mapping of objects that
// carry a "ticker" field.
func LoadTickers(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tickers file: %w", err)
	}

	var entries map[string]tickerEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing tickers file: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tickers := make([]string, 0, len(entries))
	for _, k := range keys {
		if entries[k].Ticker != "" {
			tickers = append(tickers, entries[k].Ticker)
		}
	}
	return tickers, nil
}

// Build runs the selection end to end and writes outPath.
func (b *Builder) Build(ctx context.Context, tickers []string, outPath string) error {
	selected := make([]models.UniverseEntry, 0)

	for _, symbol := range tickers {
		// Options and preferred-class suffixes; plain equities only.
		if len(symbol) > 4 {
			continue
		}

		entry, ok := b.inspect(ctx, symbol)
		if !ok {
			continue
		}
		if !b.passes(entry) {
			continue
		}
		b.logger.Info().
			Str("symbol", symbol).
			Float64("price", entry.Price).
			Float64("market_cap", entry.MarketCap).
			Float64("avg_volume", entry.AvgVolume).
			Msg("candidate selected")
		selected = append(selected, entry)
	}

	if len(selected) == 0 {
		return fmt.Errorf("no symbols meet the universe criteria")
	}

	// Enrich with float shares.
	for i := range selected {
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}
		snapshot, err := b.funda.FetchSnapshot(ctx, selected[i].Symbol)
		if err != nil {
			b.logger.Warn().Err(err).Str("symbol", selected[i].Symbol).Msg("no fundamentals for float")
			continue
		}
		if floatShares, ok := FloatSharesFromSnapshot(snapshot); ok {
			selected[i].FloatShares = floatShares
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].MarketCap < selected[j].MarketCap
	})

	if err := writeCSV(outPath, selected); err != nil {
		return err
	}
	b.logger.Info().Int("size", len(selected)).Str("file", outPath).Msg("universe written")
	return nil
}

// inspect pulls price, market cap and 30-day average volume for one symbol.
func (b *Builder) inspect(ctx context.Context, symbol string) (models.UniverseEntry, bool) {
	if err := b.limiter.Wait(ctx); err != nil {
		return models.UniverseEntry{}, false
	}
	bars, err := b.funda.FetchDailyBars(ctx, symbol, 30)
	if err != nil || len(bars) == 0 {
		b.logger.Debug().Err(err).Str("symbol", symbol).Msg("no daily bars")
		return models.UniverseEntry{}, false
	}

	price := bars[len(bars)-1].Close

	var volumeSum float64
	var volumeDays int
	for _, bar := range bars[:len(bars)-1] {
		volumeSum += float64(bar.Volume)
		volumeDays++
	}
	avgVolume := 0.0
	if volumeDays > 0 {
		avgVolume = volumeSum / float64(volumeDays)
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return models.UniverseEntry{}, false
	}
	snapshot, err := b.funda.FetchSnapshot(ctx, symbol)
	if err != nil {
		b.logger.Debug().Err(err).Str("symbol", symbol).Msg("no fundamentals snapshot")
		return models.UniverseEntry{}, false
	}
	marketCap, ok := MarketCapFromSnapshot(snapshot)
	if !ok {
		return models.UniverseEntry{}, false
	}
	// The broker reports market cap in millions.
	marketCap *= 1_000_000

	return models.UniverseEntry{
		Symbol:    symbol,
		Price:     price,
		MarketCap: marketCap,
		AvgVolume: avgVolume,
	}, true
}

func (b *Builder) passes(entry models.UniverseEntry) bool {
	if entry.Price <= b.opts.PriceMin || entry.Price >= b.opts.PriceMax {
		return false
	}
	if entry.MarketCap <= b.opts.MarketCapMin || entry.MarketCap >= b.opts.MarketCapMax {
		return false
	}
	return entry.AvgVolume >= b.opts.MinAvgVolume
}

func writeCSV(path string, entries []models.UniverseEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating universe file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"symbol", "price", "market_cap", "volume", "float"}); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.Symbol,
			strconv.FormatFloat(e.Price, 'f', -1, 64),
			strconv.FormatFloat(e.MarketCap, 'f', -1, 64),
			strconv.FormatFloat(e.AvgVolume, 'f', -1, 64),
			"",
		}
		if e.FloatShares > 0 {
			record[4] = strconv.FormatFloat(e.FloatShares, 'f', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
