package features

// Canonical feature order is a binding contract with every trained artifact:
// the classifier was fit against columns in exactly this order, and
// reordering corrupts predictions without any error being raised. Append
// only; never insert, remove or sort.
var canonicalNames = []string{
	"RSI", "BB_Position", "Volume_Ratio",
	"SMA_5_20_Ratio", "SMA_20_50_Ratio",
	"Price_to_SMA5", "Price_to_SMA20",
	"Daily_Return", "Momentum_Pct", "Volatility",
	"Return_2d", "Return_5d", "HL_Ratio",
	"Volume_Change", "Price_Acceleration",
	"MACD_Hist",
	"Stochastic", "ATR_Pct", "MFI", "OBV_Ratio",
	"Williams_R", "CCI", "ROC", "DI_Diff",
	"Up_Streak", "Down_Streak", "Gap",
	"Intraday_Range", "Close_Position", "Volume_Momentum",
}

// extendedNames are appended after the canonical block for the extended
// feature-set generation; the canonical 30 keep their relative order.
var extendedNames = []string{
	"Market_Regime", "Trend_Strength", "VP_Divergence",
	"Momentum_Quality", "Distance_to_High", "Distance_to_Low",
	"Volatility_Change", "Price_Efficiency", "Volume_Profile", "Fear_Greed",
}

// Generation identifies the feature-set a trained artifact expects.
type Generation string

const (
	GenerationOriginal Generation = "original"
	GenerationExtended Generation = "extended"
)

// Names returns a copy of the ordered feature names for the generation.
func (g Generation) Names() []string {
	var src []string
	switch g {
	case GenerationExtended:
		src = make([]string, 0, len(canonicalNames)+len(extendedNames))
		src = append(src, canonicalNames...)
		src = append(src, extendedNames...)
	default:
		src = canonicalNames
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Dim returns the feature vector width for the generation.
func (g Generation) Dim() int {
	if g == GenerationExtended {
		return len(canonicalNames) + len(extendedNames)
	}
	return len(canonicalNames)
}

func (g Generation) String() string { return string(g) }
