// Package universe loads and builds the tradeable symbol universe.
package universe

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Provider reads the selected universe from the CSV written by the builder.
// File order is preserved; the builder sorts by market cap ascending.
type Provider struct {
	path    string
	limit   int
	exclude map[string]struct{}
	logger  zerolog.Logger
}

// NewProvider creates a provider for the given universe file. limit caps the
// number of symbols; exclude lists tickers to skip regardless of the file.
func NewProvider(path string, limit int, exclude []string) *Provider {
	excluded := make(map[string]struct{}, len(exclude))
	for _, s := range exclude {
		excluded[strings.ToUpper(s)] = struct{}{}
	}
	return &Provider{
		path:    path,
		limit:   limit,
		exclude: excluded,
		logger:  log.With().Str("component", "universe").Logger(),
	}
}

// Symbols returns the ordered, de-duplicated universe for the session.
func (p *Provider) Symbols() ([]string, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("opening universe file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading universe file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("universe file %s is empty", p.path)
	}

	symbolCol := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "symbol") {
			symbolCol = i
			break
		}
	}
	if symbolCol < 0 {
		return nil, fmt.Errorf("universe file %s has no symbol column", p.path)
	}

	seen := make(map[string]struct{})
	symbols := make([]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if symbolCol >= len(record) {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(record[symbolCol]))
		if symbol == "" {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		if _, ok := p.exclude[symbol]; ok {
			p.logger.Debug().Str("symbol", symbol).Msg("symbol excluded from universe")
			continue
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
		if p.limit > 0 && len(symbols) >= p.limit {
			break
		}
	}

	p.logger.Info().Int("size", len(symbols)).Str("file", p.path).Msg("universe loaded")
	return symbols, nil
}
