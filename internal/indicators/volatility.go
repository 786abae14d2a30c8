package indicators

import (
	"math"

	"StockPulse/internal/domain/models"
)

// TrueRanges computes the per-bar true range: the greatest of high-low,
// |high - prevClose| and |low - prevClose|. The first bar has no previous
// close and falls back to its high-low span.
func TrueRanges(bars []models.Bar) []float64 {
	tr := make([]float64, len(bars))
	for i, b := range bars {
		hl := b.High - b.Low
		if i == 0 {
			tr[i] = hl
			continue
		}
		prev := bars[i-1].Close
		tr[i] = math.Max(hl, math.Max(math.Abs(b.High-prev), math.Abs(b.Low-prev)))
	}
	return tr
}

// ATRPct computes the average true range over a window, normalized by the
// close so that symbols of different price levels are comparable.
func ATRPct(bars []models.Bar, period int) []Value {
	tr := TrueRanges(bars)
	atr := SMA(tr, period)
	out := make([]Value, len(bars))
	for i := range bars {
		if !atr[i].Valid {
			continue
		}
		out[i] = ratio(atr[i].F, bars[i].Close)
	}
	return out
}
