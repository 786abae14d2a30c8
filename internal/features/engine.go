package features

import (
	"StockPulse/internal/domain/models"
	"StockPulse/internal/indicators"
)

// Lookback windows shared between training and inference. Changing any of
// these invalidates every previously trained artifact, so they live here as
// the single source of truth.
const (
	rsiPeriod        = 14
	bollingerWindow  = 20
	bollingerWidth   = 2.0
	volumeMAWindow   = 20
	smaFast          = 5
	smaMid           = 20
	smaSlow          = 50
	momentumPeriod   = 10
	volatilityWindow = 20
	macdFast         = 12
	macdSlow         = 26
	macdSignal       = 9
	stochPeriod      = 14
	atrPeriod        = 14
	mfiPeriod        = 14
	obvWindow        = 20
	cciWindow        = 20
	rocPeriod        = 12
	diPeriod         = 14
	volMomWindow     = 5
)

// MinBars is the shortest bar sequence that can possibly yield a complete
// canonical row: the SMA(50) column is the longest warm-up.
const MinBars = smaSlow

// Table holds one indicator column per feature name, index-aligned with the
// input bar sequence. Cells are optional values; a row is usable for
// inference only when every cell in it is defined.
type Table struct {
	Names   []string
	Columns [][]indicators.Value
	bars    []models.Bar
}

// Compute builds the full feature table for a bar sequence. It is a pure
// function of its input: no hidden state, deterministic, safe to call
// concurrently.
func Compute(bars []models.Bar, gen Generation) *Table {
	closes := models.Closes(bars)

	cols := make(map[string][]indicators.Value, gen.Dim())
	cols["RSI"] = indicators.RSI(closes, rsiPeriod)
	cols["BB_Position"] = indicators.BollingerPosition(closes, bollingerWindow, bollingerWidth)
	cols["Volume_Ratio"] = indicators.VolumeRatio(bars, volumeMAWindow)
	cols["SMA_5_20_Ratio"] = indicators.SMARatio(closes, smaFast, smaMid)
	cols["SMA_20_50_Ratio"] = indicators.SMARatio(closes, smaMid, smaSlow)
	cols["Price_to_SMA5"] = indicators.PriceToSMA(closes, smaFast)
	cols["Price_to_SMA20"] = indicators.PriceToSMA(closes, smaMid)
	cols["Daily_Return"] = indicators.DailyReturns(closes)
	cols["Momentum_Pct"] = indicators.PctChange(closes, momentumPeriod)
	cols["Volatility"] = indicators.ReturnVolatility(closes, volatilityWindow)
	cols["Return_2d"] = indicators.PctChange(closes, 2)
	cols["Return_5d"] = indicators.PctChange(closes, 5)
	cols["HL_Ratio"] = indicators.HLRatio(bars)
	cols["Volume_Change"] = indicators.VolumeChange(bars)
	cols["Price_Acceleration"] = indicators.PriceAcceleration(closes)
	cols["MACD_Hist"] = indicators.MACDHistogram(closes, macdFast, macdSlow, macdSignal)
	cols["Stochastic"] = indicators.StochasticK(bars, stochPeriod)
	cols["ATR_Pct"] = indicators.ATRPct(bars, atrPeriod)
	cols["MFI"] = indicators.MFI(bars, mfiPeriod)
	cols["OBV_Ratio"] = indicators.OBVRatio(bars, obvWindow)
	cols["Williams_R"] = indicators.WilliamsR(bars, stochPeriod)
	cols["CCI"] = indicators.CCI(bars, cciWindow)
	cols["ROC"] = indicators.ROC(closes, rocPeriod)
	cols["DI_Diff"] = indicators.DIDiff(bars, diPeriod)
	cols["Up_Streak"] = indicators.UpStreak(bars)
	cols["Down_Streak"] = indicators.DownStreak(bars)
	cols["Gap"] = indicators.Gap(bars)
	cols["Intraday_Range"] = indicators.IntradayRange(bars)
	cols["Close_Position"] = indicators.ClosePosition(bars)
	cols["Volume_Momentum"] = indicators.VolumeMomentum(bars, volMomWindow)

	if gen == GenerationExtended {
		addExtendedColumns(cols, bars, closes)
	}

	names := gen.Names()
	t := &Table{Names: names, Columns: make([][]indicators.Value, len(names)), bars: bars}
	for i, name := range names {
		t.Columns[i] = cols[name]
	}
	return t
}

// rowAt extracts row i if every cell is defined.
func (t *Table) rowAt(i int) ([]float64, bool) {
	row := make([]float64, len(t.Columns))
	for c, col := range t.Columns {
		if i >= len(col) || !col[i].Valid {
			return nil, false
		}
		row[c] = col[i].F
	}
	return row, true
}

// CompleteRows extracts every fully-defined row together with its bar
// index, in chronological order. Training walks the whole frame; inference
// only needs LatestComplete.
func (t *Table) CompleteRows() (idx []int, rows [][]float64) {
	for i := range t.bars {
		if row, ok := t.rowAt(i); ok {
			idx = append(idx, i)
			rows = append(rows, row)
		}
	}
	return idx, rows
}

// LatestComplete selects the last row with no undefined cells as the
// inference input. Returns an insufficient-history failure when no such row
// exists.
func (t *Table) LatestComplete(symbol string) (models.FeatureRow, error) {
	for i := len(t.bars) - 1; i >= 0; i-- {
		if row, ok := t.rowAt(i); ok {
			return models.FeatureRow{
				Symbol:    symbol,
				Timestamp: t.bars[i].Timestamp,
				Names:     t.Names,
				Values:    row,
			}, nil
		}
	}
	return models.FeatureRow{}, models.NewPredictError(
		models.KindInsufficientHistory, models.StageFeatures,
		"no fully-defined feature row in %d bars (need at least %d)", len(t.bars), MinBars)
}
