package indicators

import "StockPulse/internal/domain/models"

// UpStreak counts consecutive up closes, resetting to zero whenever the
// close fails to rise. The first bar has no reference close and is
// undefined.
func UpStreak(bars []models.Bar) []Value {
	out := make([]Value, len(bars))
	streak := 0.0
	for i := 1; i < len(bars); i++ {
		if bars[i].Close > bars[i-1].Close {
			streak++
		} else {
			streak = 0
		}
		out[i] = Def(streak)
	}
	return out
}

// DownStreak counts consecutive down closes, resetting on any non-down day.
func DownStreak(bars []models.Bar) []Value {
	out := make([]Value, len(bars))
	streak := 0.0
	for i := 1; i < len(bars); i++ {
		if bars[i].Close < bars[i-1].Close {
			streak++
		} else {
			streak = 0
		}
		out[i] = Def(streak)
	}
	return out
}

// Gap computes the opening gap relative to the previous close:
// (open - prevClose) / prevClose.
func Gap(bars []models.Bar) []Value {
	out := make([]Value, len(bars))
	for i := 1; i < len(bars); i++ {
		out[i] = ratio(bars[i].Open-bars[i-1].Close, bars[i-1].Close)
	}
	return out
}

// IntradayRange computes the day's span relative to the open:
// (high - low) / open.
func IntradayRange(bars []models.Bar) []Value {
	out := make([]Value, len(bars))
	for i, b := range bars {
		out[i] = ratio(b.High-b.Low, b.Open)
	}
	return out
}

// ClosePosition locates the close within the day's range:
// (close - low) / (high - low). Undefined on a zero-range day.
func ClosePosition(bars []models.Bar) []Value {
	out := make([]Value, len(bars))
	for i, b := range bars {
		out[i] = ratio(b.Close-b.Low, b.High-b.Low)
	}
	return out
}

// HLRatio computes the day's span relative to the close: (high - low) / close.
func HLRatio(bars []models.Bar) []Value {
	out := make([]Value, len(bars))
	for i, b := range bars {
		out[i] = ratio(b.High-b.Low, b.Close)
	}
	return out
}
