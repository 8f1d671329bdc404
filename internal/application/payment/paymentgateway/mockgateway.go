package paymentgateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	"github.com/orris-inc/paygate/internal/domain/payment"
)

// MockGateway answers checkouts locally. It backs the gateway.mock setting so
// the service can run without gateway credentials.
type MockGateway struct {
	shouldSucceed bool
	methods       []payment.Capabilities
}

func NewMockGateway(shouldSucceed bool, methods []payment.Capabilities) *MockGateway {
	return &MockGateway{
		shouldSucceed: shouldSucceed,
		methods:       methods,
	}
}

func (m *MockGateway) CheckoutBasic(_ context.Context, creds merchantvo.Credentials, p *Payment) (*CheckoutResult, error) {
	if !m.shouldSucceed {
		return nil, fmt.Errorf("mock gateway rejected order %s", p.OrderID())
	}
	return &CheckoutResult{
		PaymentURL: fmt.Sprintf("https://mock-payment.example.com/basic?merchant=%s&order=%s", creds.MerchantID, p.OrderID()),
	}, nil
}

func (m *MockGateway) CheckoutWebservice(_ context.Context, creds merchantvo.Credentials, p *Payment, _ ReturnURLs) (*CheckoutResult, error) {
	if !m.shouldSucceed {
		return nil, fmt.Errorf("mock gateway rejected order %s", p.OrderID())
	}
	txID := uuid.NewString()
	return &CheckoutResult{
		PaymentURL:            fmt.Sprintf("https://mock-payment.example.com/pay?merchant=%s&tx=%s", creds.MerchantID, txID),
		TransactionID:         txID,
		ProviderTransactionID: "MOCK_" + p.OrderID(),
		TestMode:              true,
	}, nil
}

func (m *MockGateway) Methods(context.Context, merchantvo.Credentials) ([]payment.Capabilities, error) {
	if !m.shouldSucceed {
		return nil, fmt.Errorf("mock gateway unavailable")
	}
	out := make([]payment.Capabilities, len(m.methods))
	copy(out, m.methods)
	return out, nil
}
