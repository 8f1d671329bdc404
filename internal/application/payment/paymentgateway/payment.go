package paymentgateway

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orris-inc/paygate/internal/domain/payment"
)

// Payment is the gateway's own representation of an outbound payment.
// Values are normalized to the casing the gateway expects.
type Payment struct {
	fields map[string]string
}

func NewPayment() *Payment {
	return &Payment{fields: make(map[string]string)}
}

// Set copies one wire field onto the payment.
func (p *Payment) Set(name, value string) error {
	switch name {
	case payment.FieldAmount:
		amount, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("amount %q is not an integer: %w", value, err)
		}
		if amount <= 0 {
			return fmt.Errorf("amount must be positive, got %d", amount)
		}
		p.fields[name] = strconv.FormatInt(amount, 10)
	case payment.FieldCountry, payment.FieldLanguage, payment.FieldCurrency:
		p.fields[name] = strings.ToUpper(value)
	case payment.FieldOrderID, payment.FieldPaymentMethod, payment.FieldIssuer,
		payment.FieldReference, payment.FieldDescription:
		p.fields[name] = value
	default:
		return fmt.Errorf("gateway payment has no field %q", name)
	}
	return nil
}

// Get returns a field and whether it was set.
func (p *Payment) Get(name string) (string, bool) {
	v, ok := p.fields[name]
	return v, ok
}

// Fields returns a copy of the wire body.
func (p *Payment) Fields() map[string]string {
	out := make(map[string]string, len(p.fields))
	for k, v := range p.fields {
		out[k] = v
	}
	return out
}

func (p *Payment) OrderID() string {
	return p.fields[payment.FieldOrderID]
}
