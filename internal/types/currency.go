package types

import "strings"

// DefaultCanonicalCurrency is the storage currency new tenants start
// with. All monetary values persist in the tenant's canonical currency;
// display currencies are derived via the tenant rate table.
const DefaultCanonicalCurrency = "ZAR"

// CURRENCY_CODES_SYMBOLS is a map of 3 digit ISO currency codes to their symbols
var CURRENCY_CODES_SYMBOLS = map[string]string{
	"zar": "R",
	"kes": "KES",
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"zmw": "K",
	"bwp": "P",
	"mzn": "MT",
	"tzs": "TSh",
	"ugx": "USh",
	"ngn": "₦",
	"inr": "₹",
	"cny": "¥",
	"aed": "د.إ",
}

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the code itself
func GetCurrencySymbol(code string) string {
	if symbol, ok := CURRENCY_CODES_SYMBOLS[strings.ToLower(code)]; ok {
		return symbol
	}
	return code
}

// IsMatchingCurrency compares two currency codes case insensitively
func IsMatchingCurrency(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
