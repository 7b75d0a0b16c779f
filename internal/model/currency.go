package model

import "strings"

const (
	CurrencyCAD = "CAD"
	CurrencyUSD = "USD"
)

// canadianSuffixes are exchange suffixes of TSX, TSX Venture, NEO and CSE listings.
var canadianSuffixes = []string{".TO", ".V", ".NE", ".CN"}

// NormalizeSymbol upper-cases and trims a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// fxSuffix marks yahoo currency pairs such as USDCAD=X.
const fxSuffix = "=X"

// IsFXSymbol reports whether the symbol is a currency pair rather than a security.
func IsFXSymbol(symbol string) bool {
	return strings.HasSuffix(NormalizeSymbol(symbol), fxSuffix)
}

// CurrencyForSymbol infers the trading currency from the exchange suffix.
// Currency pairs have none; anything else without a Canadian suffix is USD.
func CurrencyForSymbol(symbol string) string {
	symbol = NormalizeSymbol(symbol)
	if strings.HasSuffix(symbol, fxSuffix) {
		return ""
	}
	for _, suffix := range canadianSuffixes {
		if strings.HasSuffix(symbol, suffix) {
			return CurrencyCAD
		}
	}
	return CurrencyUSD
}
