package indicators

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"StockPulse/internal/domain/models"
)

// StochasticK computes the stochastic oscillator %K over a high/low range
// window: 100 * (close - lowestLow) / (highestHigh - lowestLow). Undefined
// when the range is zero.
func StochasticK(bars []models.Bar, period int) []Value {
	out := make([]Value, len(bars))
	for i := period - 1; i < len(bars); i++ {
		hi, lo := rangeHighLow(bars, i, period)
		if hi == lo {
			continue
		}
		out[i] = Def(100 * (bars[i].Close - lo) / (hi - lo))
	}
	return out
}

// WilliamsR computes Williams %R over a high/low range window:
// -100 * (highestHigh - close) / (highestHigh - lowestLow).
func WilliamsR(bars []models.Bar, period int) []Value {
	out := make([]Value, len(bars))
	for i := period - 1; i < len(bars); i++ {
		hi, lo := rangeHighLow(bars, i, period)
		if hi == lo {
			continue
		}
		out[i] = Def(-100 * (hi - bars[i].Close) / (hi - lo))
	}
	return out
}

// CCI computes the Commodity Channel Index over a window: the typical
// price's deviation from its SMA normalized by 0.015 times the mean
// absolute deviation. Undefined when the mean deviation is zero.
func CCI(bars []models.Bar, window int) []Value {
	tp := typicalPrices(bars)
	out := make([]Value, len(bars))
	for i := window - 1; i < len(bars); i++ {
		win := tp[i-window+1 : i+1]
		mean := stat.Mean(win, nil)
		var mad float64
		for _, v := range win {
			mad += math.Abs(v - mean)
		}
		mad /= float64(window)
		if mad == 0 {
			continue
		}
		out[i] = Def((tp[i] - mean) / (0.015 * mad))
	}
	return out
}

// MFI computes the Money Flow Index over a window from volume-weighted
// typical prices. When the negative flow is zero MFI is 100; when both
// flows are zero the value is undefined.
func MFI(bars []models.Bar, period int) []Value {
	tp := typicalPrices(bars)
	out := make([]Value, len(bars))
	pos := make([]float64, len(bars))
	neg := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		flow := tp[i] * float64(bars[i].Volume)
		if tp[i] > tp[i-1] {
			pos[i] = flow
		} else if tp[i] < tp[i-1] {
			neg[i] = flow
		}
	}
	for i := period; i < len(bars); i++ {
		var p, n float64
		for j := i - period + 1; j <= i; j++ {
			p += pos[j]
			n += neg[j]
		}
		switch {
		case p == 0 && n == 0:
			// no directional flow at all; undefined
		case n == 0:
			out[i] = Def(100)
		default:
			out[i] = Def(100 - 100/(1+p/n))
		}
	}
	return out
}

func typicalPrices(bars []models.Bar) []float64 {
	tp := make([]float64, len(bars))
	for i, b := range bars {
		tp[i] = (b.High + b.Low + b.Close) / 3
	}
	return tp
}

func rangeHighLow(bars []models.Bar, i, period int) (hi, lo float64) {
	hi, lo = bars[i-period+1].High, bars[i-period+1].Low
	for j := i - period + 2; j <= i; j++ {
		if bars[j].High > hi {
			hi = bars[j].High
		}
		if bars[j].Low < lo {
			lo = bars[j].Low
		}
	}
	return hi, lo
}
