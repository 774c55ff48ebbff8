package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNumberify(t *testing.T) {
	tests := []struct {
		value int64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		if got := Numberify(tt.value); got != tt.want {
			t.Errorf("Numberify(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestCurrencify(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"0", "$0.000000"},
		{"0.000123", "$0.000123"},
		{"12.5", "$12.500000"},
	}

	for _, tt := range tests {
		if got := Currencify(decimal.RequireFromString(tt.value)); got != tt.want {
			t.Errorf("Currencify(%s) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
