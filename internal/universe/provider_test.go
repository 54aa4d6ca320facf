package universe

import (
	"os"
	"path/filepath"
	"testing"
)

func writeUniverseFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stocks_with_float.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing universe file: %v", err)
	}
	return path
}

func TestProviderSymbols(t *testing.T) {
	path := writeUniverseFile(t, "symbol,price,market_cap,volume,float\n"+
		"abcd,1.2,2000000,9000,1500000\n"+
		"EFGH,0.8,1500000,12000,900000\n"+
		"ABCD,1.2,2000000,9000,1500000\n"+ // duplicate
		"IJKL,2.4,4000000,7000,\n")

	p := NewProvider(path, 0, nil)
	symbols, err := p.Symbols()
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}

	want := []string{"ABCD", "EFGH", "IJKL"}
	if len(symbols) != len(want) {
		t.Fatalf("expected %v, got %v", want, symbols)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, symbols)
		}
	}
}

func TestProviderHonorsLimitAndExcludes(t *testing.T) {
	path := writeUniverseFile(t, "symbol,price\nAAAA,1\nBBBB,1\nCCCC,1\nDDDD,1\n")

	p := NewProvider(path, 2, []string{"aaaa"})
	symbols, err := p.Symbols()
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}

	want := []string{"BBBB", "CCCC"}
	if len(symbols) != 2 || symbols[0] != want[0] || symbols[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, symbols)
	}
}

func TestProviderRequiresSymbolColumn(t *testing.T) {
	path := writeUniverseFile(t, "ticker,price\nAAAA,1\n")

	if _, err := NewProvider(path, 0, nil).Symbols(); err == nil {
		t.Fatalf("expected an error for a missing symbol column")
	}
}

func TestProviderMissingFile(t *testing.T) {
	p := NewProvider(filepath.Join(t.TempDir(), "missing.csv"), 0, nil)
	if _, err := p.Symbols(); err == nil {
		t.Fatalf("expected an error for a missing universe file")
	}
}
