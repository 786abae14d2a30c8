package features

import (
	"errors"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
)

// genBars builds a deterministic pseudo-random daily walk with enough
// variation to keep every indicator defined once its window fills.
func genBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	price := 100.0
	seed := uint64(42)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		seed = seed*6364136223846793005 + 1442695040888963407
		r := float64((seed>>40)%1000) / 1000.0
		price *= 1 + (r-0.48)*0.03
		open := price * (1 + (r-0.5)*0.004)
		bars[i] = models.Bar{
			Timestamp: day.AddDate(0, 0, i),
			Open:      open,
			High:      price * 1.012,
			Low:       price * 0.988,
			Close:     price,
			Volume:    int64(1_000_000 + (seed>>30)%500_000),
		}
	}
	return bars
}

func TestGenerationWidths(t *testing.T) {
	if got := GenerationOriginal.Dim(); got != 30 {
		t.Fatalf("original width: got %d, want 30", got)
	}
	if got := GenerationExtended.Dim(); got != 40 {
		t.Fatalf("extended width: got %d, want 40", got)
	}
}

func TestExtendedPreservesCanonicalPrefix(t *testing.T) {
	orig := GenerationOriginal.Names()
	ext := GenerationExtended.Names()
	if len(ext) != len(orig)+10 {
		t.Fatalf("extended must append exactly 10 names, got %d over %d", len(ext), len(orig))
	}
	for i, name := range orig {
		if ext[i] != name {
			t.Fatalf("position %d: extended has %q, canonical has %q", i, ext[i], name)
		}
	}
}

func TestLatestCompleteRow(t *testing.T) {
	bars := genBars(120)
	table := Compute(bars, GenerationOriginal)
	row, err := table.LatestComplete("SPY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Len() != 30 {
		t.Fatalf("row width: got %d, want 30", row.Len())
	}
	if row.Symbol != "SPY" {
		t.Fatalf("symbol: got %q", row.Symbol)
	}
	if !row.Timestamp.Equal(bars[len(bars)-1].Timestamp) {
		t.Fatalf("latest complete row should land on the final bar, got %v", row.Timestamp)
	}
	for i, name := range GenerationOriginal.Names() {
		if row.Names[i] != name {
			t.Fatalf("name order broken at %d: got %q, want %q", i, row.Names[i], name)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	bars := genBars(150)
	a, err := Compute(bars, GenerationExtended).LatestComplete("SPY")
	if err != nil {
		t.Fatalf("first compute: %v", err)
	}
	b, err := Compute(bars, GenerationExtended).LatestComplete("SPY")
	if err != nil {
		t.Fatalf("second compute: %v", err)
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("value %d differs between identical runs: %v vs %v", i, a.Values[i], b.Values[i])
		}
	}
}

func TestInsufficientHistory(t *testing.T) {
	bars := genBars(MinBars - 1)
	_, err := Compute(bars, GenerationOriginal).LatestComplete("SPY")
	if err == nil {
		t.Fatalf("expected failure with %d bars", MinBars-1)
	}
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("want insufficient history, got %v", err)
	}
	var perr *models.PredictError
	if !errors.As(err, &perr) || perr.Stage != models.StageFeatures {
		t.Fatalf("want feature_computing stage, got %v", err)
	}
}

func TestExtendedRowComplete(t *testing.T) {
	bars := genBars(150)
	row, err := Compute(bars, GenerationExtended).LatestComplete("SPY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Len() != 40 {
		t.Fatalf("extended row width: got %d, want 40", row.Len())
	}
}

func TestCompleteRowsChronological(t *testing.T) {
	bars := genBars(120)
	idx, rows := Compute(bars, GenerationOriginal).CompleteRows()
	if len(idx) == 0 {
		t.Fatalf("no complete rows in 120 bars")
	}
	if len(idx) != len(rows) {
		t.Fatalf("index/row count mismatch: %d vs %d", len(idx), len(rows))
	}
	for k := 1; k < len(idx); k++ {
		if idx[k] <= idx[k-1] {
			t.Fatalf("indices not strictly increasing at %d", k)
		}
	}
	for k, row := range rows {
		if len(row) != 30 {
			t.Fatalf("row %d width: got %d", k, len(row))
		}
	}
}
