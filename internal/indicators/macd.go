package indicators

// MACDHistogram computes the MACD histogram: the MACD line
// (EMA(fast) - EMA(slow)) minus its EMA(signal) signal line.
func MACDHistogram(closes []float64, fast, slow, signal int) []Value {
	out := make([]Value, len(closes))
	if len(closes) == 0 {
		return out
	}
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = emaFast[i].F - emaSlow[i].F
	}
	sig := EMA(line, signal)
	for i := range closes {
		out[i] = Def(line[i] - sig[i].F)
	}
	return out
}
