package payment

import (
	"context"
	"errors"
	"net/url"
	"strings"

	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	vo "github.com/orris-inc/paygate/internal/domain/payment/valueobjects"
	apperrors "github.com/orris-inc/paygate/internal/shared/errors"
)

// Channel identifies how a gateway response reached the merchant.
type Channel string

const (
	// ChannelQuery is the payer's browser redirect to the return URL.
	ChannelQuery Channel = "query"
	// ChannelCallback is the gateway's server-to-server postback.
	ChannelCallback Channel = "callback"
)

// QueryFields are the parameters carried by the redirect channel.
var QueryFields = []string{
	"status", "statusCode", "merchant", "orderID", "paymentID", "reference", "transactionID", "checksum",
}

// CallbackFields extend QueryFields with consumer and payment details.
var CallbackFields = append(append([]string{}, QueryFields...),
	"consumerName", "consumerAccountNumber", "consumerAddress", "consumerHouseNumber",
	"consumerCity", "consumerCountry", "consumerEmail", "consumerPhoneNumber",
	"consumerIPAddress", "amount", "currency", "paymentMethod",
)

// VerifiedResult is what a verifier extracts from an authenticated response.
type VerifiedResult struct {
	Status     string
	StatusCode string
	OrderID    string
	Params     map[string]string
}

// ResponseVerifier authenticates inbound gateway data. ok is false when the
// data fails verification; err is reserved for the verification call itself
// failing.
type ResponseVerifier interface {
	VerifyQuery(ctx context.Context, creds merchantvo.Credentials, values url.Values) (VerifiedResult, bool, error)
	VerifyCallback(ctx context.Context, creds merchantvo.Credentials, values url.Values) (VerifiedResult, bool, error)
}

// PaymentResponse is a gateway response decoded into a typed result. It is
// populated exactly once by LoadFromQuery or LoadFromCallback.
type PaymentResponse struct {
	creds    merchantvo.Credentials
	verifier ResponseVerifier

	loaded            bool
	channel           Channel
	status            vo.ResponseStatus
	statusDescription string
	orderID           string
	params            map[string]string
}

func NewPaymentResponse(merchant merchantvo.MerchantID, secret merchantvo.SharedSecret, verifier ResponseVerifier) *PaymentResponse {
	return &PaymentResponse{
		creds:    merchantvo.Credentials{MerchantID: merchant, Secret: secret},
		verifier: verifier,
	}
}

// LoadFromQuery authenticates and decodes the redirect channel.
func (p *PaymentResponse) LoadFromQuery(ctx context.Context, values url.Values) error {
	return p.load(ctx, ChannelQuery, values)
}

// LoadFromCallback authenticates and decodes the postback channel.
func (p *PaymentResponse) LoadFromCallback(ctx context.Context, values url.Values) error {
	return p.load(ctx, ChannelCallback, values)
}

func (p *PaymentResponse) load(ctx context.Context, channel Channel, values url.Values) error {
	if p.loaded {
		return apperrors.NewInvalidResponseError("response already loaded")
	}
	if p.verifier == nil {
		return apperrors.NewAPIFailure("response verifier is not configured", errNoVerifier)
	}

	var (
		res    VerifiedResult
		ok     bool
		err    error
		fields []string
	)
	switch channel {
	case ChannelQuery:
		res, ok, err = p.verifier.VerifyQuery(ctx, p.creds, values)
		fields = QueryFields
	default:
		res, ok, err = p.verifier.VerifyCallback(ctx, p.creds, values)
		fields = CallbackFields
	}
	if err != nil {
		return apperrors.NewAPIFailure("response verification failed", err)
	}
	if !ok {
		return apperrors.NewInvalidResponseError("response could not be verified", string(channel))
	}

	status, err := vo.NewResponseStatus(res.Status)
	if err != nil {
		return err
	}

	params := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, present := lookupFold(res.Params, f); present {
			params[f] = v
		}
	}

	p.channel = channel
	p.status = status
	p.statusDescription = res.StatusCode
	p.orderID = res.OrderID
	p.params = params
	p.loaded = true
	return nil
}

var errNoVerifier = errors.New("nil verifier")

func (p *PaymentResponse) IsLoaded() bool {
	return p.loaded
}

func (p *PaymentResponse) Channel() Channel {
	return p.channel
}

func (p *PaymentResponse) IsSuccessful() bool {
	return p.loaded && p.status.IsSuccessful()
}

func (p *PaymentResponse) IsPending() bool {
	return p.loaded && p.status.IsPending()
}

func (p *PaymentResponse) Status() vo.ResponseStatus {
	return p.status
}

func (p *PaymentResponse) StatusDescription() string {
	return p.statusDescription
}

func (p *PaymentResponse) OrderID() string {
	return p.orderID
}

func (p *PaymentResponse) MerchantID() merchantvo.MerchantID {
	return p.creds.MerchantID
}

// Params returns a copy of the raw channel parameters.
func (p *PaymentResponse) Params() map[string]string {
	out := make(map[string]string, len(p.params))
	for k, v := range p.params {
		out[k] = v
	}
	return out
}

// Param resolves a named accessor first and falls back to a case-insensitive
// lookup in the raw parameters.
func (p *PaymentResponse) Param(name string) (string, error) {
	switch strings.ToLower(name) {
	case "status":
		if p.loaded {
			return p.status.String(), nil
		}
	case "statusdescription", "statuscode":
		if p.loaded {
			return p.statusDescription, nil
		}
	case "orderid":
		if p.loaded {
			return p.orderID, nil
		}
	case "merchant", "merchantid":
		return p.creds.MerchantID.String(), nil
	}

	if v, ok := lookupFold(p.params, name); ok {
		return v, nil
	}
	return "", apperrors.NewInvalidArgumentError("unknown response parameter", name)
}

func lookupFold(m map[string]string, name string) (string, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
