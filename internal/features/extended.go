package features

import (
	"math"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/indicators"
)

// Extended-generation windows.
const (
	divergenceWindow = 5
	qualityWindow    = 10
	supportWindow    = 20
	efficiencyPeriod = 10
	profileFast      = 5
	profileSlow      = 20
	regimeBins       = 3
)

// addExtendedColumns appends the engineered features of the extended
// generation on top of the canonical columns. All of them derive from
// already-computed canonical columns or cheap rolling statistics, so the
// canonical block stays untouched.
func addExtendedColumns(cols map[string][]indicators.Value, bars []models.Bar, closes []float64) {
	n := len(bars)

	cols["Market_Regime"] = volatilityRegime(cols["Volatility"])

	trend := make([]indicators.Value, n)
	for i, v := range cols["SMA_5_20_Ratio"] {
		if v.Valid {
			trend[i] = indicators.Def(math.Abs(v.F - 1))
		}
	}
	cols["Trend_Strength"] = trend

	cols["VP_Divergence"] = volumePriceDivergence(cols["Volume_Change"], cols["Daily_Return"])
	cols["Momentum_Quality"] = momentumQuality(cols["Daily_Return"])

	highs := indicators.RollingMax(barsHigh(bars), supportWindow)
	lows := indicators.RollingMin(barsLow(bars), supportWindow)
	distHigh := make([]indicators.Value, n)
	distLow := make([]indicators.Value, n)
	for i := 0; i < n; i++ {
		if highs[i].Valid && closes[i] != 0 {
			distHigh[i] = indicators.Def((highs[i].F - closes[i]) / closes[i])
		}
		if lows[i].Valid && closes[i] != 0 {
			distLow[i] = indicators.Def((closes[i] - lows[i].F) / closes[i])
		}
	}
	cols["Distance_to_High"] = distHigh
	cols["Distance_to_Low"] = distLow

	cols["Volatility_Change"] = pctChangeOf(cols["Volatility"])
	cols["Price_Efficiency"] = priceEfficiency(closes, efficiencyPeriod)
	cols["Volume_Profile"] = volumeProfile(bars)
	cols["Fear_Greed"] = fearGreed(cols["RSI"], cols["Stochastic"], cols["Williams_R"])
}

// volatilityRegime buckets the volatility column into equal-width terciles
// over the window: 0 calm, 1 normal, 2 stressed. Undefined when volatility
// never varies within the window.
func volatilityRegime(vol []indicators.Value) []indicators.Value {
	out := make([]indicators.Value, len(vol))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vol {
		if !v.Valid {
			continue
		}
		lo = math.Min(lo, v.F)
		hi = math.Max(hi, v.F)
	}
	if !(lo < hi) {
		return out
	}
	width := (hi - lo) / regimeBins
	for i, v := range vol {
		if !v.Valid {
			continue
		}
		bin := math.Floor((v.F - lo) / width)
		if bin >= regimeBins {
			bin = regimeBins - 1
		}
		out[i] = indicators.Def(bin)
	}
	return out
}

func volumePriceDivergence(volChange, dailyRet []indicators.Value) []indicators.Value {
	n := len(volChange)
	out := make([]indicators.Value, n)
	prod := make([]indicators.Value, n)
	for i := 0; i < n; i++ {
		if indicators.Defined(volChange[i], dailyRet[i]) {
			prod[i] = indicators.Def(volChange[i].F * -dailyRet[i].F)
		}
	}
	for i := divergenceWindow - 1; i < n; i++ {
		sum := 0.0
		ok := true
		for j := i - divergenceWindow + 1; j <= i; j++ {
			if !prod[j].Valid {
				ok = false
				break
			}
			sum += prod[j].F
		}
		if ok {
			out[i] = indicators.Def(sum / divergenceWindow)
		}
	}
	return out
}

// momentumQuality is the share of positive daily returns over the window; a
// measure of how consistently momentum pointed one way.
func momentumQuality(rets []indicators.Value) []indicators.Value {
	out := make([]indicators.Value, len(rets))
	for i := qualityWindow - 1; i < len(rets); i++ {
		pos, ok := 0, true
		for j := i - qualityWindow + 1; j <= i; j++ {
			if !rets[j].Valid {
				ok = false
				break
			}
			if rets[j].F > 0 {
				pos++
			}
		}
		if ok {
			out[i] = indicators.Def(float64(pos) / qualityWindow)
		}
	}
	return out
}

func pctChangeOf(vs []indicators.Value) []indicators.Value {
	out := make([]indicators.Value, len(vs))
	for i := 1; i < len(vs); i++ {
		if !indicators.Defined(vs[i], vs[i-1]) || vs[i-1].F == 0 {
			continue
		}
		out[i] = indicators.Def((vs[i].F - vs[i-1].F) / vs[i-1].F)
	}
	return out
}

// priceEfficiency measures how directly price travelled over the period:
// net change divided by the sum of absolute per-bar changes.
func priceEfficiency(closes []float64, period int) []indicators.Value {
	out := make([]indicators.Value, len(closes))
	for i := period; i < len(closes); i++ {
		var travelled float64
		for j := i - period + 1; j <= i; j++ {
			travelled += math.Abs(closes[j] - closes[j-1])
		}
		if travelled == 0 {
			continue
		}
		out[i] = indicators.Def((closes[i] - closes[i-period]) / travelled)
	}
	return out
}

// volumeProfile is the ratio of the short to the long volume moving average.
func volumeProfile(bars []models.Bar) []indicators.Value {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = float64(b.Volume)
	}
	fast := indicators.SMA(vols, profileFast)
	slow := indicators.SMA(vols, profileSlow)
	out := make([]indicators.Value, len(bars))
	for i := range bars {
		if !indicators.Defined(fast[i], slow[i]) || slow[i].F == 0 {
			continue
		}
		out[i] = indicators.Def(fast[i].F / slow[i].F)
	}
	return out
}

func fearGreed(rsi, stoch, williams []indicators.Value) []indicators.Value {
	out := make([]indicators.Value, len(rsi))
	for i := range rsi {
		if !indicators.Defined(rsi[i], stoch[i], williams[i]) {
			continue
		}
		out[i] = indicators.Def((rsi[i].F + stoch[i].F + (100 - williams[i].F)) / 3)
	}
	return out
}

func barsHigh(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

func barsLow(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}
