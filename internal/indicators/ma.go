package indicators

import "gonum.org/v1/gonum/stat"

// SMA computes the simple moving average over a fixed window. Positions
// before the window is filled are undefined.
func SMA(xs []float64, window int) []Value {
	out := make([]Value, len(xs))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(xs); i++ {
		out[i] = Def(stat.Mean(xs[i-window+1:i+1], nil))
	}
	return out
}

// EMA computes the exponential moving average with alpha = 2/(span+1),
// seeded from the first value. Defined from the first position onward.
func EMA(xs []float64, span int) []Value {
	out := make([]Value, len(xs))
	if len(xs) == 0 || span <= 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	ema := xs[0]
	out[0] = Def(ema)
	for i := 1; i < len(xs); i++ {
		ema = alpha*xs[i] + (1-alpha)*ema
		out[i] = Def(ema)
	}
	return out
}

// RollingStd computes the rolling sample standard deviation over a window.
func RollingStd(xs []float64, window int) []Value {
	out := make([]Value, len(xs))
	if window <= 1 {
		return out
	}
	for i := window - 1; i < len(xs); i++ {
		out[i] = Def(stat.StdDev(xs[i-window+1:i+1], nil))
	}
	return out
}

// RollingMax computes the rolling maximum over a window.
func RollingMax(xs []float64, window int) []Value {
	out := make([]Value, len(xs))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(xs); i++ {
		m := xs[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			if xs[j] > m {
				m = xs[j]
			}
		}
		out[i] = Def(m)
	}
	return out
}

// RollingMin computes the rolling minimum over a window.
func RollingMin(xs []float64, window int) []Value {
	out := make([]Value, len(xs))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(xs); i++ {
		m := xs[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			if xs[j] < m {
				m = xs[j]
			}
		}
		out[i] = Def(m)
	}
	return out
}

func stdDev(xs []float64) Value {
	if len(xs) < 2 {
		return Undef()
	}
	return Def(stat.StdDev(xs, nil))
}

// SMARatio computes SMA(fast)/SMA(slow) per position; the classic moving
// average crossover expressed as a ratio.
func SMARatio(closes []float64, fast, slow int) []Value {
	f := SMA(closes, fast)
	s := SMA(closes, slow)
	out := make([]Value, len(closes))
	for i := range closes {
		if !Defined(f[i], s[i]) {
			continue
		}
		out[i] = ratio(f[i].F, s[i].F)
	}
	return out
}

// PriceToSMA computes (close - SMA(window)) / SMA(window) per position.
func PriceToSMA(closes []float64, window int) []Value {
	ma := SMA(closes, window)
	out := make([]Value, len(closes))
	for i := range closes {
		if !ma[i].Valid {
			continue
		}
		out[i] = ratio(closes[i]-ma[i].F, ma[i].F)
	}
	return out
}
