package paymentgateway

import (
	"context"

	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	"github.com/orris-inc/paygate/internal/domain/payment"
)

// Gateway defines the transport to the payment gateway.
type Gateway interface {
	// CheckoutBasic submits a payment without a preselected method. The gateway
	// lets the payer choose, so only a payment URL comes back.
	CheckoutBasic(ctx context.Context, creds merchantvo.Credentials, p *Payment) (*CheckoutResult, error)
	// CheckoutWebservice submits a payment with a preselected method and explicit
	// return URLs.
	CheckoutWebservice(ctx context.Context, creds merchantvo.Credentials, p *Payment, urls ReturnURLs) (*CheckoutResult, error)
	// Methods fetches the merchant's full payment method catalog.
	Methods(ctx context.Context, creds merchantvo.Credentials) ([]payment.Capabilities, error)
}

// ReturnURLs are where the gateway sends the payer after a webservice checkout.
type ReturnURLs struct {
	Success string
	Error   string
}

// CheckoutResult is the gateway's answer to a checkout. Only PaymentURL is
// meaningful on the basic path.
type CheckoutResult struct {
	PaymentURL            string
	TransactionID         string
	ProviderTransactionID string
	TestMode              bool
}
