package indicators

// RSI computes the Relative Strength Index over the given period using
// rolling average gain and loss. Bounded to [0, 100]; when the average loss
// is exactly zero RSI is 100 rather than a division by zero.
func RSI(closes []float64, period int) []Value {
	out := make([]Value, len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	for i := period; i < len(closes); i++ {
		var avgGain, avgLoss float64
		for j := i - period + 1; j <= i; j++ {
			avgGain += gains[j]
			avgLoss += losses[j]
		}
		avgGain /= float64(period)
		avgLoss /= float64(period)
		if avgLoss == 0 {
			out[i] = Def(100)
			continue
		}
		rs := avgGain / avgLoss
		out[i] = Def(100 - 100/(1+rs))
	}
	return out
}
