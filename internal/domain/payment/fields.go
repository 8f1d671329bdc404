package payment

import (
	"strconv"

	apperrors "github.com/orris-inc/paygate/internal/shared/errors"
)

// Wire names of the request fields.
const (
	FieldCountry       = "country"
	FieldLanguage      = "language"
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldOrderID       = "orderId"
	FieldPaymentMethod = "paymentMethod"
	FieldIssuer        = "issuer"
	FieldReference     = "reference"
	FieldDescription   = "description"
)

var requiredFields = []string{FieldLanguage, FieldAmount, FieldCurrency, FieldOrderID}

var fieldOrder = []string{
	FieldCountry, FieldLanguage, FieldAmount, FieldCurrency, FieldOrderID,
	FieldPaymentMethod, FieldIssuer, FieldReference, FieldDescription,
}

type fieldAccessor struct {
	get func(r *PaymentRequest) (string, bool)
	set func(r *PaymentRequest, value string) error
}

var fieldRegistry = map[string]fieldAccessor{
	FieldCountry:  {get: (*PaymentRequest).Country, set: (*PaymentRequest).SetCountry},
	FieldLanguage: {get: (*PaymentRequest).Language, set: (*PaymentRequest).SetLanguage},
	FieldAmount: {
		get: func(r *PaymentRequest) (string, bool) {
			v, ok := r.Amount()
			if !ok {
				return "", false
			}
			return strconv.FormatInt(v, 10), true
		},
		set: (*PaymentRequest).SetAmountString,
	},
	FieldCurrency:      {get: (*PaymentRequest).Currency, set: (*PaymentRequest).SetCurrency},
	FieldOrderID:       {get: (*PaymentRequest).OrderID, set: (*PaymentRequest).SetOrderID},
	FieldPaymentMethod: {get: (*PaymentRequest).PaymentMethod, set: (*PaymentRequest).SetPaymentMethod},
	FieldIssuer:        {get: (*PaymentRequest).Issuer, set: (*PaymentRequest).SetIssuer},
	FieldReference:     {get: (*PaymentRequest).Reference, set: (*PaymentRequest).SetReference},
	FieldDescription:   {get: (*PaymentRequest).Description, set: (*PaymentRequest).SetDescription},
}

// FieldNames lists every wire name in canonical order.
func FieldNames() []string {
	out := make([]string, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// Get returns a field by wire name. Unset fields yield an empty string.
func (r *PaymentRequest) Get(name string) (string, error) {
	acc, ok := fieldRegistry[name]
	if !ok {
		return "", apperrors.NewUnknownFieldError(name)
	}
	v, _ := acc.get(r)
	return v, nil
}

// Set assigns a field by wire name through its typed setter.
func (r *PaymentRequest) Set(name, value string) error {
	acc, ok := fieldRegistry[name]
	if !ok {
		return apperrors.NewUnknownFieldError(name)
	}
	return acc.set(r, value)
}
