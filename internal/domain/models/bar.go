package models

import "time"

// Bar represents one OHLCV observation for a symbol. Sequences of bars are
// ordered by ascending timestamp with no duplicates; the data collaborator
// owns that guarantee.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Closes extracts the close series from a bar sequence.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// LastClose returns the most recent close, or 0 for an empty series.
func LastClose(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].Close
}
