package usecases

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/paygate/internal/application/payment/paymentgateway"
	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	"github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CheckoutBasic(ctx context.Context, creds merchantvo.Credentials, p *paymentgateway.Payment) (*paymentgateway.CheckoutResult, error) {
	args := m.Called(ctx, creds, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.CheckoutResult), args.Error(1)
}

func (m *mockGateway) CheckoutWebservice(ctx context.Context, creds merchantvo.Credentials, p *paymentgateway.Payment, urls paymentgateway.ReturnURLs) (*paymentgateway.CheckoutResult, error) {
	args := m.Called(ctx, creds, p, urls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.CheckoutResult), args.Error(1)
}

func (m *mockGateway) Methods(ctx context.Context, creds merchantvo.Credentials) ([]payment.Capabilities, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Capabilities), args.Error(1)
}

type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) Append(ctx context.Context, entry *payment.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockJournal) ListByOrderID(ctx context.Context, orderID string) ([]*payment.JournalEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.JournalEntry), args.Error(1)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyQuery(ctx context.Context, creds merchantvo.Credentials, values url.Values) (payment.VerifiedResult, bool, error) {
	args := m.Called(ctx, creds, values)
	return args.Get(0).(payment.VerifiedResult), args.Bool(1), args.Error(2)
}

func (m *mockVerifier) VerifyCallback(ctx context.Context, creds merchantvo.Credentials, values url.Values) (payment.VerifiedResult, bool, error) {
	args := m.Called(ctx, creds, values)
	return args.Get(0).(payment.VerifiedResult), args.Bool(1), args.Error(2)
}

func testCredentials(t *testing.T) merchantvo.Credentials {
	t.Helper()
	creds, err := merchantvo.NewCredentials("12345", "abcdefghijklmnopqrstuvwxyz0123456789ABCD")
	require.NoError(t, err)
	return creds
}

func nopLogger() logger.Interface {
	return logger.NewNop()
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishStatus(ctx context.Context, resp *payment.PaymentResponse) error {
	return m.Called(ctx, resp).Error(0)
}
