package indicators

import "StockPulse/internal/domain/models"

// VolumeRatio computes volume relative to its moving average over a window.
func VolumeRatio(bars []models.Bar, window int) []Value {
	vols := volumes(bars)
	ma := SMA(vols, window)
	out := make([]Value, len(bars))
	for i := range bars {
		if !ma[i].Valid {
			continue
		}
		out[i] = ratio(vols[i], ma[i].F)
	}
	return out
}

// VolumeChange is the one-period percent change of volume.
func VolumeChange(bars []models.Bar) []Value {
	return PctChange(volumes(bars), 1)
}

// OBVRatio computes cumulative on-balance volume normalized against its own
// moving average over a window.
func OBVRatio(bars []models.Bar, window int) []Value {
	obv := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		obv[i] = obv[i-1] + sign(bars[i].Close-bars[i-1].Close)*float64(bars[i].Volume)
	}
	ma := SMA(obv, window)
	out := make([]Value, len(bars))
	for i := range bars {
		if !ma[i].Valid {
			continue
		}
		out[i] = ratio(obv[i], ma[i].F)
	}
	return out
}

// VolumeMomentum computes volume relative to its short moving average,
// signed by the day's price direction.
func VolumeMomentum(bars []models.Bar, window int) []Value {
	vols := volumes(bars)
	ma := SMA(vols, window)
	out := make([]Value, len(bars))
	for i := 1; i < len(bars); i++ {
		if !ma[i].Valid || ma[i].F == 0 {
			continue
		}
		out[i] = Def(vols[i] / ma[i].F * sign(bars[i].Close-bars[i-1].Close))
	}
	return out
}

func volumes(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = float64(b.Volume)
	}
	return out
}
