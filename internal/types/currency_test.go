package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		code   string
		want   string
	}{
		{"usd whole", decimal.NewFromInt(12), "USD", "$12.00"},
		{"usd cents", decimal.NewFromFloat(13.5), "USD", "$13.50"},
		{"eur", decimal.NewFromFloat(30.25), "EUR", "€30.25"},
		{"jpy has no fraction digits", decimal.NewFromInt(1200), "JPY", "¥1200"},
		{"unknown code falls back to the code", decimal.NewFromInt(5), "XXX", "XXX5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(tt.amount, tt.code); got != tt.want {
				t.Errorf("FormatAmount(%s, %s) = %q, want %q", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}

func TestValidateCurrencyCode(t *testing.T) {
	valid := []string{"USD", "usd", "Eur"}
	for _, code := range valid {
		if !ValidateCurrencyCode(code) {
			t.Errorf("ValidateCurrencyCode(%q) = false, want true", code)
		}
	}

	invalid := []string{"", "US", "USDD", "U$D", "123"}
	for _, code := range invalid {
		if ValidateCurrencyCode(code) {
			t.Errorf("ValidateCurrencyCode(%q) = true, want false", code)
		}
	}
}
