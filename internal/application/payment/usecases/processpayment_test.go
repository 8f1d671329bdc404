package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/paygate/internal/application/payment/paymentgateway"
	"github.com/orris-inc/paygate/internal/domain/payment"
	apperrors "github.com/orris-inc/paygate/internal/shared/errors"
)

var testReturnURLs = paymentgateway.ReturnURLs{
	Success: "https://shop.example/ok",
	Error:   "https://shop.example/err",
}

func newRequest(t *testing.T, method string) *payment.PaymentRequest {
	t.Helper()
	catalog := payment.NewStaticCatalog([]payment.Capabilities{{
		Method:     "IDEAL",
		Countries:  []string{payment.WildcardEntry},
		Languages:  []string{payment.WildcardEntry},
		Currencies: []string{"EUR"},
		Amount:     payment.AmountRange{Minimum: 1, Maximum: 100000},
	}})
	r := payment.NewPaymentRequest(catalog)
	require.NoError(t, r.SetLanguage("nl"))
	require.NoError(t, r.SetAmount(1500))
	require.NoError(t, r.SetCurrency("EUR"))
	require.NoError(t, r.SetOrderID("ORD-1"))
	if method != "" {
		require.NoError(t, r.SetPaymentMethod(method))
	}
	return r
}

func TestProcessPayment_BasicPath(t *testing.T) {
	gw := new(mockGateway)
	creds := testCredentials(t)

	gw.On("CheckoutBasic", mock.Anything, creds, mock.MatchedBy(func(p *paymentgateway.Payment) bool {
		lang, _ := p.Get(payment.FieldLanguage)
		return p.OrderID() == "ORD-1" && lang == "NL"
	})).Return(&paymentgateway.CheckoutResult{PaymentURL: "https://gw/basic/1"}, nil)

	uc := NewProcessPaymentUseCase(creds, gw, testReturnURLs, nopLogger())
	result, err := uc.Execute(context.Background(), newRequest(t, ""))

	require.NoError(t, err)
	assert.Equal(t, "https://gw/basic/1", result.PaymentURL)
	assert.Nil(t, result.TransactionID)
	assert.Nil(t, result.ProviderTransactionID)
	assert.Nil(t, result.TestMode)
	gw.AssertExpectations(t)
	gw.AssertNotCalled(t, "CheckoutWebservice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPayment_EmptyPaymentMethodUsesBasicPath(t *testing.T) {
	gw := new(mockGateway)
	creds := testCredentials(t)

	gw.On("CheckoutBasic", mock.Anything, creds, mock.Anything).
		Return(&paymentgateway.CheckoutResult{PaymentURL: "https://gw/basic/2"}, nil)

	r := newRequest(t, "")
	require.NoError(t, r.SetPaymentMethod(""))

	uc := NewProcessPaymentUseCase(creds, gw, testReturnURLs, nopLogger())
	result, err := uc.Execute(context.Background(), r)

	require.NoError(t, err)
	assert.Equal(t, "https://gw/basic/2", result.PaymentURL)
	assert.False(t, result.IsWebservice())
	gw.AssertNotCalled(t, "CheckoutWebservice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPayment_WebservicePath(t *testing.T) {
	gw := new(mockGateway)
	creds := testCredentials(t)

	gw.On("CheckoutWebservice", mock.Anything, creds, mock.Anything, testReturnURLs).
		Return(&paymentgateway.CheckoutResult{
			PaymentURL:            "https://gw/pay/1",
			TransactionID:         "TX-1",
			ProviderTransactionID: "PRV-1",
			TestMode:              false,
		}, nil)

	uc := NewProcessPaymentUseCase(creds, gw, testReturnURLs, nopLogger())
	result, err := uc.Execute(context.Background(), newRequest(t, "IDEAL"))

	require.NoError(t, err)
	assert.Equal(t, "https://gw/pay/1", result.PaymentURL)
	require.NotNil(t, result.TransactionID)
	assert.Equal(t, "TX-1", *result.TransactionID)
	require.NotNil(t, result.ProviderTransactionID)
	assert.Equal(t, "PRV-1", *result.ProviderTransactionID)
	require.NotNil(t, result.TestMode)
	assert.False(t, *result.TestMode)
	gw.AssertExpectations(t)
}

func TestProcessPayment_GatewayFailureIsWrapped(t *testing.T) {
	gw := new(mockGateway)
	creds := testCredentials(t)
	cause := errors.New("connection reset")

	gw.On("CheckoutBasic", mock.Anything, creds, mock.Anything).Return(nil, cause)

	uc := NewProcessPaymentUseCase(creds, gw, testReturnURLs, nopLogger())
	_, err := uc.Execute(context.Background(), newRequest(t, ""))

	require.Error(t, err)
	assert.True(t, apperrors.IsAPIFailure(err))
	assert.ErrorIs(t, err, cause)
}

func TestProcessPayment_ValidationErrorPropagates(t *testing.T) {
	gw := new(mockGateway)
	uc := NewProcessPaymentUseCase(testCredentials(t), gw, testReturnURLs, nopLogger())

	req := payment.NewPaymentRequest(nil)
	require.NoError(t, req.SetLanguage("EN"))

	_, err := uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingParameter(err))
	gw.AssertNotCalled(t, "CheckoutBasic", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPayment_CopyFailureIsAPIFailure(t *testing.T) {
	gw := new(mockGateway)
	uc := NewProcessPaymentUseCase(testCredentials(t), gw, testReturnURLs, nopLogger())

	req := newRequest(t, "")
	require.NoError(t, req.SetAmount(0))

	_, err := uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsAPIFailure(err))
	require.NotNil(t, errors.Unwrap(err))
}

func TestProcessPayment_Journal(t *testing.T) {
	t.Run("records submission", func(t *testing.T) {
		gw := new(mockGateway)
		journal := new(mockJournal)
		creds := testCredentials(t)

		gw.On("CheckoutBasic", mock.Anything, creds, mock.Anything).
			Return(&paymentgateway.CheckoutResult{PaymentURL: "https://gw/basic/1"}, nil)
		journal.On("Append", mock.Anything, mock.MatchedBy(func(e *payment.JournalEntry) bool {
			return e.Kind() == payment.JournalKindSubmission && e.OrderID() == "ORD-1"
		})).Return(nil)

		uc := NewProcessPaymentUseCase(creds, gw, testReturnURLs, nopLogger())
		uc.SetJournal(journal)

		_, err := uc.Execute(context.Background(), newRequest(t, ""))
		require.NoError(t, err)
		journal.AssertExpectations(t)
	})

	t.Run("journal failure does not fail submission", func(t *testing.T) {
		gw := new(mockGateway)
		journal := new(mockJournal)
		creds := testCredentials(t)

		gw.On("CheckoutBasic", mock.Anything, creds, mock.Anything).
			Return(&paymentgateway.CheckoutResult{PaymentURL: "https://gw/basic/1"}, nil)
		journal.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		uc := NewProcessPaymentUseCase(creds, gw, testReturnURLs, nopLogger())
		uc.SetJournal(journal)

		result, err := uc.Execute(context.Background(), newRequest(t, ""))
		require.NoError(t, err)
		assert.Equal(t, "https://gw/basic/1", result.PaymentURL)
	})
}
