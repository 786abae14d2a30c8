package indicators

// BollingerPosition computes the close's position inside Bollinger bands:
// (close - lower) / (upper - lower) with bands at SMA(window) +/- k sample
// standard deviations. Undefined while the window fills and when the bands
// collapse to zero width.
func BollingerPosition(closes []float64, window int, k float64) []Value {
	mid := SMA(closes, window)
	sd := RollingStd(closes, window)
	out := make([]Value, len(closes))
	for i := range closes {
		if !Defined(mid[i], sd[i]) {
			continue
		}
		upper := mid[i].F + k*sd[i].F
		lower := mid[i].F - k*sd[i].F
		out[i] = ratio(closes[i]-lower, upper-lower)
	}
	return out
}
