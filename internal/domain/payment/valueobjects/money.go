package valueobjects

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is an amount in minor units of an ISO 4217 currency.
type Money struct {
	minor    int64
	currency string
}

func NewMoney(minor int64, currencyCode string) Money {
	return Money{
		minor:    minor,
		currency: strings.ToUpper(currencyCode),
	}
}

// String renders the amount with the currency symbol, e.g. "EUR 12.34".
// Unknown currency codes fall back to two decimals and the raw code.
func (m Money) String() string {
	unit, err := currency.ParseISO(m.currency)
	if err != nil {
		p := message.NewPrinter(language.English)
		return p.Sprintf("%s %.2f", m.currency, float64(m.minor)/100)
	}

	scale, _ := currency.Standard.Rounding(unit)
	major := float64(m.minor)
	for i := 0; i < scale; i++ {
		major /= 10
	}

	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(major)))
}
