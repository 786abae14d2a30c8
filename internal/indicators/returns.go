package indicators

// PctChange computes the percent change over n periods:
// (x_t - x_{t-n}) / x_{t-n}. Undefined for the first n positions and
// wherever the base value is zero.
func PctChange(xs []float64, n int) []Value {
	out := make([]Value, len(xs))
	if n <= 0 {
		return out
	}
	for i := n; i < len(xs); i++ {
		out[i] = ratio(xs[i]-xs[i-n], xs[i-n])
	}
	return out
}

// DailyReturns is the one-period percent change of closes.
func DailyReturns(closes []float64) []Value {
	return PctChange(closes, 1)
}

// ROC is the rate of change over n periods expressed in percent.
func ROC(closes []float64, n int) []Value {
	out := PctChange(closes, n)
	for i, v := range out {
		if v.Valid {
			out[i] = Def(v.F * 100)
		}
	}
	return out
}

// PriceAcceleration is the first difference of the daily return.
func PriceAcceleration(closes []float64) []Value {
	rets := DailyReturns(closes)
	out := make([]Value, len(closes))
	for i := 2; i < len(closes); i++ {
		if Defined(rets[i], rets[i-1]) {
			out[i] = Def(rets[i].F - rets[i-1].F)
		}
	}
	return out
}

// ReturnVolatility is the rolling sample standard deviation of daily
// returns over a window.
func ReturnVolatility(closes []float64, window int) []Value {
	rets := DailyReturns(closes)
	out := make([]Value, len(closes))
	if window <= 1 {
		return out
	}
	buf := make([]float64, 0, window)
	for i := window; i < len(closes); i++ {
		buf = buf[:0]
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if !rets[j].Valid {
				ok = false
				break
			}
			buf = append(buf, rets[j].F)
		}
		if !ok {
			continue
		}
		out[i] = stdDev(buf)
	}
	return out
}
