// Package catalog loads payment method capability records.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/shared/utils"
)

type amountDoc struct {
	Minimum int64 `yaml:"minimum" json:"minimum" validate:"gte=0"`
	Maximum int64 `yaml:"maximum" json:"maximum" validate:"gtefield=Minimum"`
}

type methodDoc struct {
	Code       string    `yaml:"code" json:"code" validate:"required"`
	Countries  []string  `yaml:"countries" json:"countries" validate:"required,min=1,dive,len=2"`
	Languages  []string  `yaml:"languages" json:"languages" validate:"required,min=1,dive,len=2"`
	Issuers    []string  `yaml:"issuers" json:"issuers"`
	Currencies []string  `yaml:"currencies" json:"currencies" validate:"required,min=1,dive,len=3|eq=00"`
	Amount     amountDoc `yaml:"amount" json:"amount"`
}

type fileDoc struct {
	Methods []methodDoc `yaml:"methods" json:"methods" validate:"dive"`
}

// Parse decodes a YAML capability catalog.
func Parse(data []byte) (payment.StaticCatalog, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := utils.ValidateStruct(&doc); err != nil {
		return nil, err
	}

	records := make([]payment.Capabilities, 0, len(doc.Methods))
	seen := make(map[string]struct{}, len(doc.Methods))
	for _, m := range doc.Methods {
		code := strings.ToUpper(m.Code)
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("catalog lists method %s twice", code)
		}
		seen[code] = struct{}{}

		records = append(records, payment.Capabilities{
			Method:     code,
			Countries:  upper(m.Countries),
			Languages:  upper(m.Languages),
			Issuers:    m.Issuers,
			Currencies: upper(m.Currencies),
			Amount:     payment.AmountRange{Minimum: m.Amount.Minimum, Maximum: m.Amount.Maximum},
		})
	}
	return payment.NewStaticCatalog(records), nil
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) (payment.StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func upper(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}
