package format

import (
	"github.com/shopspring/decimal"
)

// per-call costs are fractions of a cent
const currencyPlaces = 6

func Currencify(value decimal.Decimal) string {
	return "$" + value.StringFixed(currencyPlaces)
}
