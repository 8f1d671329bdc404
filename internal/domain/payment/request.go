package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	apperrors "github.com/orris-inc/paygate/internal/shared/errors"
	"github.com/orris-inc/paygate/internal/shared/utils"
)

const maxOrderIDLength = 10

var errNoCatalog = errors.New("nil catalog")

// PaymentRequest accumulates the outbound fields of one payment attempt.
// Every setter validates its own field. Validate cross-checks the fields against
// the selected payment method and freezes the request on success.
//
// A PaymentRequest is not safe for concurrent use.
type PaymentRequest struct {
	catalog        CapabilityCatalog
	allowedMethods map[string]struct{}

	country       *string
	language      *string
	amount        *int64
	currency      *string
	orderID       *string
	paymentMethod *string
	issuer        *string
	reference     *string
	description   *string

	frozen bool
}

// NewPaymentRequest creates an empty request. When allowedMethods is non-empty,
// SetPaymentMethod only accepts its members.
func NewPaymentRequest(catalog CapabilityCatalog, allowedMethods ...string) *PaymentRequest {
	r := &PaymentRequest{catalog: catalog}
	if len(allowedMethods) > 0 {
		r.allowedMethods = make(map[string]struct{}, len(allowedMethods))
		for _, m := range allowedMethods {
			r.allowedMethods[m] = struct{}{}
		}
	}
	return r
}

func (r *PaymentRequest) checkMutable(field string) error {
	if r.frozen {
		return apperrors.NewInvalidArgumentError("payment request is finalized", field)
	}
	return nil
}

func (r *PaymentRequest) SetCountry(country string) error {
	if err := r.checkMutable(FieldCountry); err != nil {
		return err
	}
	if utf8.RuneCountInString(country) != 2 {
		return apperrors.NewInvalidArgumentError("country must be 2 characters", country)
	}
	r.country = &country
	return nil
}

func (r *PaymentRequest) SetLanguage(lang string) error {
	if err := r.checkMutable(FieldLanguage); err != nil {
		return err
	}
	if utf8.RuneCountInString(lang) != 2 || utils.IsNumeric(lang) {
		return apperrors.NewInvalidArgumentError("language must be 2 letters", lang)
	}
	r.language = &lang
	return nil
}

// SetAmount stores the amount in minor units.
func (r *PaymentRequest) SetAmount(amount int64) error {
	if err := r.checkMutable(FieldAmount); err != nil {
		return err
	}
	r.amount = &amount
	return nil
}

// SetAmountString parses a decimal integer amount in minor units.
func (r *PaymentRequest) SetAmountString(amount string) error {
	if err := r.checkMutable(FieldAmount); err != nil {
		return err
	}
	v, err := strconv.ParseInt(amount, 10, 64)
	if err != nil {
		return apperrors.NewInvalidArgumentError("amount must be an integer in minor units", amount)
	}
	r.amount = &v
	return nil
}

func (r *PaymentRequest) SetCurrency(currency string) error {
	if err := r.checkMutable(FieldCurrency); err != nil {
		return err
	}
	if utf8.RuneCountInString(currency) != 3 || utils.IsNumeric(currency) {
		return apperrors.NewInvalidArgumentError("currency must be 3 letters", currency)
	}
	r.currency = &currency
	return nil
}

func (r *PaymentRequest) SetOrderID(orderID string) error {
	if err := r.checkMutable(FieldOrderID); err != nil {
		return err
	}
	if utf8.RuneCountInString(orderID) > maxOrderIDLength {
		return apperrors.NewInvalidArgumentError(
			fmt.Sprintf("order id must be at most %d characters", maxOrderIDLength), orderID)
	}
	r.orderID = &orderID
	return nil
}

func (r *PaymentRequest) SetPaymentMethod(method string) error {
	if err := r.checkMutable(FieldPaymentMethod); err != nil {
		return err
	}
	if len(r.allowedMethods) > 0 {
		if _, ok := r.allowedMethods[method]; !ok {
			return apperrors.NewUnsupportedError("payment method is not allowed", method)
		}
	}
	r.paymentMethod = &method
	return nil
}

func (r *PaymentRequest) SetIssuer(issuer string) error {
	if err := r.checkMutable(FieldIssuer); err != nil {
		return err
	}
	r.issuer = &issuer
	return nil
}

func (r *PaymentRequest) SetReference(reference string) error {
	if err := r.checkMutable(FieldReference); err != nil {
		return err
	}
	r.reference = &reference
	return nil
}

func (r *PaymentRequest) SetDescription(description string) error {
	if err := r.checkMutable(FieldDescription); err != nil {
		return err
	}
	r.description = &description
	return nil
}

func deref(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

func (r *PaymentRequest) Country() (string, bool)       { return deref(r.country) }
func (r *PaymentRequest) Language() (string, bool)      { return deref(r.language) }
func (r *PaymentRequest) Currency() (string, bool)      { return deref(r.currency) }
func (r *PaymentRequest) OrderID() (string, bool)       { return deref(r.orderID) }
func (r *PaymentRequest) PaymentMethod() (string, bool) { return deref(r.paymentMethod) }
func (r *PaymentRequest) Issuer() (string, bool)        { return deref(r.issuer) }
func (r *PaymentRequest) Reference() (string, bool)     { return deref(r.reference) }
func (r *PaymentRequest) Description() (string, bool)   { return deref(r.description) }

func (r *PaymentRequest) Amount() (int64, bool) {
	if r.amount == nil {
		return 0, false
	}
	return *r.amount, true
}

// AllowedMethods returns the restriction given at construction, or nil.
func (r *PaymentRequest) AllowedMethods() []string {
	if len(r.allowedMethods) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.allowedMethods))
	for m := range r.allowedMethods {
		out = append(out, m)
	}
	return out
}

// IsFinalized reports whether Validate has succeeded.
func (r *PaymentRequest) IsFinalized() bool {
	return r.frozen
}

// Validate checks the required fields and, when a non-empty payment method is
// selected, every present field against that method's capabilities. A successful call
// freezes the request.
func (r *PaymentRequest) Validate(ctx context.Context) error {
	if r.frozen {
		return nil
	}

	for _, f := range requiredFields {
		if _, ok := fieldRegistry[f].get(r); !ok {
			return apperrors.NewMissingParameterError(f)
		}
	}

	if method, ok := r.PaymentMethod(); ok && method != "" {
		if err := r.validateCapabilities(ctx, method); err != nil {
			return err
		}
	}

	r.frozen = true
	return nil
}

func (r *PaymentRequest) validateCapabilities(ctx context.Context, method string) error {
	if r.catalog == nil {
		return apperrors.NewAPIFailure("capability catalog is not configured", errNoCatalog)
	}
	caps, found, err := r.catalog.Lookup(ctx, method)
	if err != nil {
		return apperrors.NewAPIFailure("failed to load payment method capabilities", err)
	}
	if !found {
		return apperrors.NewUnsupportedError("unknown payment method", method)
	}

	if v, ok := r.Country(); ok && v != "" && !caps.SupportsCountry(v) {
		return unsupportedBy(FieldCountry, v, method)
	}
	if v, ok := r.Language(); ok && v != "" && !caps.SupportsLanguage(v) {
		return unsupportedBy(FieldLanguage, v, method)
	}
	if v, ok := r.Amount(); ok {
		if v < caps.Amount.Minimum {
			return apperrors.NewInvalidArgumentError(
				fmt.Sprintf("amount %d is below minimum %d for payment method %s", v, caps.Amount.Minimum, method),
				"minimum")
		}
		if v > caps.Amount.Maximum {
			return apperrors.NewInvalidArgumentError(
				fmt.Sprintf("amount %d is above maximum %d for payment method %s", v, caps.Amount.Maximum, method),
				"maximum")
		}
	}
	if v, ok := r.Currency(); ok && v != "" && !caps.SupportsCurrency(v) {
		return unsupportedBy(FieldCurrency, v, method)
	}
	if v, ok := r.Issuer(); ok && v != "" && !caps.SupportsIssuer(v) {
		return unsupportedBy(FieldIssuer, v, method)
	}
	return nil
}

func unsupportedBy(field, value, method string) error {
	return apperrors.NewUnsupportedError(
		fmt.Sprintf("%s %q is not supported by payment method %s", field, value, method), value)
}

// Fields validates the request and returns a snapshot of the fields that were
// set, keyed by wire name.
func (r *PaymentRequest) Fields(ctx context.Context) (map[string]string, error) {
	if err := r.Validate(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(fieldOrder))
	for _, name := range fieldOrder {
		if v, ok := fieldRegistry[name].get(r); ok {
			out[name] = v
		}
	}
	return out, nil
}
