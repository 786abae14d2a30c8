package indicators

import "StockPulse/internal/domain/models"

// DIDiff computes +DI minus -DI from the directional movement system over
// a window. Directional movement takes the larger of the up move and the
// down move, zero when the moves disagree; both DIs are normalized by the
// rolling true range sum. Undefined when the true range sum is zero.
func DIDiff(bars []models.Bar, period int) []Value {
	out := make([]Value, len(bars))
	if len(bars) < 2 {
		return out
	}
	tr := TrueRanges(bars)
	plusDM := make([]float64, len(bars))
	minusDM := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}
	for i := period; i < len(bars); i++ {
		var trSum, pSum, mSum float64
		for j := i - period + 1; j <= i; j++ {
			trSum += tr[j]
			pSum += plusDM[j]
			mSum += minusDM[j]
		}
		if trSum == 0 {
			continue
		}
		plusDI := 100 * pSum / trSum
		minusDI := 100 * mSum / trSum
		out[i] = Def(plusDI - minusDI)
	}
	return out
}
