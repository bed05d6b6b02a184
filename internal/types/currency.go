package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CURRENCY_CODES_SYMBOLS is a map of 3 digit ISO currency codes to their symbols
var CURRENCY_CODES_SYMBOLS = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"aud": "AU$",
	"cad": "CA$",
	"chf": "CHF",
	"sek": "kr",
	"nzd": "NZ$",
	"hkd": "HK$",
	"sgd": "S$",
	"jpy": "¥",
	"cny": "¥",
	"inr": "₹",
	"brl": "R$",
	"mxn": "MX$",
	"krw": "₩",
	"try": "₺",
	"zar": "R",
	"myr": "RM",
}

// CURRENCY_PRECISIONS holds the number of fraction digits for currencies that
// do not use the default of 2.
var CURRENCY_PRECISIONS = map[string]int32{
	"jpy": 0,
	"krw": 0,
}

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the code itself
func GetCurrencySymbol(code string) string {
	if symbol, ok := CURRENCY_CODES_SYMBOLS[strings.ToLower(code)]; ok {
		return symbol
	}
	return code
}

// GetCurrencyPrecision returns the number of fraction digits for a currency
func GetCurrencyPrecision(code string) int32 {
	if precision, ok := CURRENCY_PRECISIONS[strings.ToLower(code)]; ok {
		return precision
	}
	return 2
}

// FormatAmount renders an amount per the currency's display rules,
// e.g. FormatAmount(decimal.NewFromInt(12), "USD") == "$12.00".
func FormatAmount(amount decimal.Decimal, code string) string {
	return fmt.Sprintf("%s%s", GetCurrencySymbol(code), amount.StringFixed(GetCurrencyPrecision(code)))
}

// ValidateCurrencyCode checks that a currency code is a 3 letter ISO code
func ValidateCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
