package registry

import "strings"

// AssetClass is the routing category for model selection.
type AssetClass int

const (
	Equity AssetClass = iota
	Crypto
)

func (c AssetClass) String() string {
	if c == Crypto {
		return "crypto"
	}
	return "equity"
}

// cryptoQuotes are the quote currencies that mark a symbol as a crypto
// currency pair under the SYMBOL-QUOTE convention (BTC-USD, ETH-EUR, ...).
var cryptoQuotes = map[string]struct{}{
	"USD": {}, "USDT": {}, "USDC": {}, "EUR": {}, "GBP": {}, "BTC": {}, "ETH": {},
}

// ClassifySymbol assigns an asset class from the symbol's shape alone.
// A two-part dashed symbol whose suffix is a known quote currency is a
// crypto pair; everything else routes as equity/ETF.
func ClassifySymbol(symbol string) AssetClass {
	parts := strings.Split(strings.ToUpper(symbol), "-")
	if len(parts) != 2 || parts[0] == "" {
		return Equity
	}
	if _, ok := cryptoQuotes[parts[1]]; ok {
		return Crypto
	}
	return Equity
}
