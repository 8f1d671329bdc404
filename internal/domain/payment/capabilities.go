package payment

import (
	"context"
	"sort"
)

// WildcardEntry as the first element of a capability list accepts any value.
const WildcardEntry = "00"

// AmountRange bounds a payment method's amount in minor units, inclusive.
type AmountRange struct {
	Minimum int64 `json:"minimum" yaml:"minimum"`
	Maximum int64 `json:"maximum" yaml:"maximum"`
}

// Contains reports whether amount lies within the range.
func (r AmountRange) Contains(amount int64) bool {
	return amount >= r.Minimum && amount <= r.Maximum
}

// Capabilities describes what a single payment method accepts.
type Capabilities struct {
	Method     string      `json:"paymentMethodCode" yaml:"code"`
	Countries  []string    `json:"supportedCountries" yaml:"countries"`
	Languages  []string    `json:"supportedLanguages" yaml:"languages"`
	Issuers    []string    `json:"supportedIssuers" yaml:"issuers"`
	Currencies []string    `json:"supportedCurrency" yaml:"currencies"`
	Amount     AmountRange `json:"supportedAmountRange" yaml:"amount"`
}

func (c Capabilities) SupportsCountry(country string) bool {
	return supports(c.Countries, country)
}

func (c Capabilities) SupportsLanguage(lang string) bool {
	return supports(c.Languages, lang)
}

func (c Capabilities) SupportsCurrency(currency string) bool {
	return supports(c.Currencies, currency)
}

func (c Capabilities) SupportsIssuer(issuer string) bool {
	return supports(c.Issuers, issuer)
}

// supports applies the capability membership rule: a leading wildcard accepts
// anything, otherwise the value must be listed exactly.
func supports(list []string, value string) bool {
	if len(list) > 0 && list[0] == WildcardEntry {
		return true
	}
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// CapabilityCatalog looks up a payment method's capability record.
// Lookup returns found == false for a method the catalog does not know.
type CapabilityCatalog interface {
	Lookup(ctx context.Context, method string) (caps Capabilities, found bool, err error)
}

// StaticCatalog is an in-memory CapabilityCatalog keyed by method code.
type StaticCatalog map[string]Capabilities

// NewStaticCatalog indexes records by their Method field.
func NewStaticCatalog(records []Capabilities) StaticCatalog {
	c := make(StaticCatalog, len(records))
	for _, r := range records {
		c[r.Method] = r
	}
	return c
}

func (c StaticCatalog) Lookup(_ context.Context, method string) (Capabilities, bool, error) {
	caps, ok := c[method]
	return caps, ok, nil
}

// Methods returns the catalog's method codes in sorted order.
func (c StaticCatalog) Methods() []string {
	out := make([]string, 0, len(c))
	for m := range c {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Records returns every capability record ordered by method code.
func (c StaticCatalog) Records() []Capabilities {
	out := make([]Capabilities, 0, len(c))
	for _, m := range c.Methods() {
		out = append(out, c[m])
	}
	return out
}
