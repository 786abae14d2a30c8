package indicators

import (
	"math"
	"testing"

	"StockPulse/internal/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMAWarmup(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	out := SMA(xs, 3)
	for i := 0; i < 2; i++ {
		if out[i].Valid {
			t.Fatalf("position %d should be undefined before window fills", i)
		}
	}
	if !out[2].Valid || !almostEqual(out[2].F, 2) {
		t.Fatalf("SMA at 2: got %v, want 2", out[2])
	}
	if !out[4].Valid || !almostEqual(out[4].F, 4) {
		t.Fatalf("SMA at 4: got %v, want 4", out[4])
	}
}

func TestEMADefinedFromStart(t *testing.T) {
	xs := []float64{10, 11, 12}
	out := EMA(xs, 5)
	if !out[0].Valid || !almostEqual(out[0].F, 10) {
		t.Fatalf("EMA seeds from first value, got %v", out[0])
	}
	// alpha = 2/6; second value = 10 + (11-10)/3
	if !almostEqual(out[1].F, 10+1.0/3.0) {
		t.Fatalf("EMA at 1: got %v", out[1].F)
	}
}

func TestRSIBoundsAndWarmup(t *testing.T) {
	closes := make([]float64, 60)
	p := 100.0
	for i := range closes {
		if i%3 == 0 {
			p *= 1.01
		} else {
			p *= 0.997
		}
		closes[i] = p
	}
	out := RSI(closes, 14)
	for i := 0; i < 14; i++ {
		if out[i].Valid {
			t.Fatalf("RSI defined at %d during warmup", i)
		}
	}
	for i := 14; i < len(out); i++ {
		if !out[i].Valid {
			t.Fatalf("RSI undefined at %d", i)
		}
		if out[i].F < 0 || out[i].F > 100 {
			t.Fatalf("RSI out of range at %d: %v", i, out[i].F)
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	out := RSI(closes, 14)
	if !out[20].Valid || !almostEqual(out[20].F, 100) {
		t.Fatalf("monotonic rise should pin RSI at 100, got %v", out[20])
	}
}

func TestBollingerCollapseUndefined(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50 // zero variance, zero band width
	}
	out := BollingerPosition(closes, 20, 2)
	for i := 19; i < len(out); i++ {
		if out[i].Valid {
			t.Fatalf("flat series must leave band position undefined at %d", i)
		}
	}
}

func TestStochasticFlatRangeUndefined(t *testing.T) {
	bars := make([]models.Bar, 20)
	for i := range bars {
		bars[i] = models.Bar{Open: 10, High: 10, Low: 10, Close: 10, Volume: 100}
	}
	out := StochasticK(bars, 14)
	for i := 13; i < len(out); i++ {
		if out[i].Valid {
			t.Fatalf("zero high-low range must be undefined at %d", i)
		}
	}
}

func TestStreaksResetOnDirectionChange(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 12, 11, 12}
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 100}
	}
	up := UpStreak(bars)
	down := DownStreak(bars)

	if up[0].Valid {
		t.Fatalf("first bar has no prior close, streak must be undefined")
	}
	if !almostEqual(up[3].F, 3) {
		t.Fatalf("three consecutive up closes, got up streak %v", up[3].F)
	}
	if !almostEqual(up[4].F, 0) {
		t.Fatalf("down close must reset up streak, got %v", up[4].F)
	}
	if !almostEqual(down[5].F, 2) {
		t.Fatalf("two consecutive down closes, got down streak %v", down[5].F)
	}
	if !almostEqual(down[6].F, 0) || !almostEqual(up[6].F, 1) {
		t.Fatalf("up close must reset down streak: down=%v up=%v", down[6].F, up[6].F)
	}
}

func TestGap(t *testing.T) {
	bars := []models.Bar{
		{Open: 100, High: 101, Low: 99, Close: 100, Volume: 100},
		{Open: 102, High: 103, Low: 101, Close: 102, Volume: 100},
	}
	out := Gap(bars)
	if out[0].Valid {
		t.Fatalf("gap needs a previous close")
	}
	if !almostEqual(out[1].F, 0.02) {
		t.Fatalf("gap: got %v, want 0.02", out[1].F)
	}
}

func TestDefCollapsesNonFinite(t *testing.T) {
	if Def(math.NaN()).Valid {
		t.Fatalf("NaN must collapse to undefined")
	}
	if Def(math.Inf(1)).Valid {
		t.Fatalf("+Inf must collapse to undefined")
	}
	if !Def(0).Valid {
		t.Fatalf("zero is a defined value")
	}
}

func TestPctChange(t *testing.T) {
	xs := []float64{100, 110, 121}
	out := PctChange(xs, 1)
	if out[0].Valid {
		t.Fatalf("no change defined at first position")
	}
	if !almostEqual(out[1].F, 0.10) {
		t.Fatalf("pct change at 1: got %v", out[1].F)
	}
	if !almostEqual(out[2].F, 0.10) {
		t.Fatalf("pct change at 2: got %v", out[2].F)
	}
}

func TestMFIExtremes(t *testing.T) {
	bars := make([]models.Bar, 20)
	p := 10.0
	for i := range bars {
		p += 1 // typical price strictly rising, no negative flow
		bars[i] = models.Bar{Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 100}
	}
	out := MFI(bars, 14)
	if !out[15].Valid || !almostEqual(out[15].F, 100) {
		t.Fatalf("all-positive flow must pin MFI at 100, got %v", out[15])
	}
}
