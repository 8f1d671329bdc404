package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appPayment "github.com/orris-inc/paygate/internal/application/payment"
	"github.com/orris-inc/paygate/internal/application/payment/paymentgateway"
	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	domainPayment "github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/infrastructure/gateway"
	"github.com/orris-inc/paygate/internal/interfaces/dto"
	"github.com/orris-inc/paygate/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

var testMethods = []domainPayment.Capabilities{
	{
		Method:     "IDEAL",
		Countries:  []string{"NL"},
		Languages:  []string{domainPayment.WildcardEntry},
		Issuers:    []string{"ING"},
		Currencies: []string{"EUR"},
		Amount:     domainPayment.AmountRange{Minimum: 100, Maximum: 5000},
	},
	{
		Method:     "CREDITCARD",
		Countries:  []string{domainPayment.WildcardEntry},
		Languages:  []string{domainPayment.WildcardEntry},
		Currencies: []string{"EUR", "USD"},
		Amount:     domainPayment.AmountRange{Minimum: 30, Maximum: 1000000},
	},
}

func testCredentials(t *testing.T) merchantvo.Credentials {
	t.Helper()
	creds, err := merchantvo.NewCredentials("12345", "abcdefghijklmnopqrstuvwxyz0123456789ABCD")
	require.NoError(t, err)
	return creds
}

func newTestEngine(t *testing.T, gw paymentgateway.Gateway) *gin.Engine {
	t.Helper()
	creds := testCredentials(t)
	svc := appPayment.NewService(creds.MerchantID, creds.Secret, gw, nil, gateway.NewChecksumVerifier(), logger.NewNop(),
		appPayment.ServiceOptions{ReturnURLs: paymentgateway.ReturnURLs{Success: "https://shop/ok", Error: "https://shop/err"}})

	h := NewPaymentHandler(svc, logger.NewNop())
	r := gin.New()
	r.GET("/healthz", Health)
	r.GET("/methods", h.ListMethods)
	r.POST("/payments", h.CreatePayment)
	r.GET("/payments/return", h.HandleReturn)
	r.POST("/payments/postback", h.HandlePostback)
	return r
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHealth(t *testing.T) {
	w := testutil.DoJSON(newTestEngine(t, paymentgateway.NewMockGateway(true, nil)), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestListMethods(t *testing.T) {
	engine := newTestEngine(t, paymentgateway.NewMockGateway(true, testMethods))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"CREDITCARD", "IDEAL"}},
		{"amount", "?amount=6000", []string{"CREDITCARD"}},
		{"lower case country", "?country=de", []string{"CREDITCARD"}},
		{"currency", "?currency=EUR&country=NL", []string{"CREDITCARD", "IDEAL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.DoJSON(engine, http.MethodGet, "/methods"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			methods := decode[[]dto.PaymentMethodResponse](t, resp.Data)

			var codes []string
			for _, m := range methods {
				codes = append(codes, m.Code)
			}
			assert.Equal(t, tt.want, codes)
		})
	}

	t.Run("bad amount", func(t *testing.T) {
		w := testutil.DoJSON(engine, http.MethodGet, "/methods?amount=ten", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("gateway down", func(t *testing.T) {
		down := newTestEngine(t, paymentgateway.NewMockGateway(false, nil))
		w := testutil.DoJSON(down, http.MethodGet, "/methods", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestCreatePayment(t *testing.T) {
	engine := newTestEngine(t, paymentgateway.NewMockGateway(true, testMethods))

	t.Run("basic checkout generates order id", func(t *testing.T) {
		w := testutil.DoJSON(engine, http.MethodPost, "/payments", map[string]any{
			"language": "nl",
			"amount":   1000,
			"currency": "eur",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		created := decode[dto.CreatePaymentResponse](t, resp.Data)
		assert.Len(t, created.OrderID, 10)
		assert.Contains(t, created.PaymentURL, "/basic")
		assert.Empty(t, created.TransactionID)
	})

	t.Run("webservice checkout", func(t *testing.T) {
		w := testutil.DoJSON(engine, http.MethodPost, "/payments", map[string]any{
			"language":       "NL",
			"amount":         1000,
			"currency":       "EUR",
			"country":        "NL",
			"order_id":       "ORD-77",
			"payment_method": "ideal",
			"issuer":         "ING",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		created := decode[dto.CreatePaymentResponse](t, resp.Data)
		assert.Equal(t, "ORD-77", created.OrderID)
		assert.NotEmpty(t, created.TransactionID)
		assert.Equal(t, "MOCK_ORD-77", created.ProviderTransactionID)
		require.NotNil(t, created.TestMode)
		assert.True(t, *created.TestMode)
	})

	t.Run("binding failure", func(t *testing.T) {
		w := testutil.DoJSON(engine, http.MethodPost, "/payments", map[string]any{"amount": 1000})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("method not eligible for amount", func(t *testing.T) {
		w := testutil.DoJSON(engine, http.MethodPost, "/payments", map[string]any{
			"language":       "NL",
			"amount":         9000,
			"currency":       "EUR",
			"payment_method": "IDEAL",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.Equal(t, "unsupported", resp.Error.Type)
	})

	t.Run("unsupported issuer", func(t *testing.T) {
		w := testutil.DoJSON(engine, http.MethodPost, "/payments", map[string]any{
			"language":       "NL",
			"amount":         1000,
			"currency":       "EUR",
			"payment_method": "IDEAL",
			"issuer":         "ABN",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("gateway rejects", func(t *testing.T) {
		failing := newTestEngine(t, &rejectingGateway{MockGateway: paymentgateway.NewMockGateway(true, testMethods)})
		w := testutil.DoJSON(failing, http.MethodPost, "/payments", map[string]any{
			"language": "NL",
			"amount":   1000,
			"currency": "EUR",
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func signedRedirect(t *testing.T, status string) url.Values {
	return gateway.SignQuery(testCredentials(t), url.Values{
		"status":        {status},
		"statusCode":    {"Payment completed"},
		"orderID":       {"ORD-1"},
		"paymentID":     {"9001"},
		"reference":     {""},
		"transactionID": {"TX-1"},
	})
}

func TestHandleReturn(t *testing.T) {
	engine := newTestEngine(t, paymentgateway.NewMockGateway(true, testMethods))

	w := testutil.DoJSON(engine, http.MethodGet, "/payments/return?"+signedRedirect(t, "OK").Encode(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	got := decode[dto.GatewayResponseDTO](t, resp.Data)
	assert.Equal(t, "query", got.Channel)
	assert.Equal(t, "OK", got.Status)
	assert.True(t, got.Successful)
	assert.Equal(t, "ORD-1", got.OrderID)

	tampered := signedRedirect(t, "OK")
	tampered.Set("status", "OPEN")
	w = testutil.DoJSON(engine, http.MethodGet, "/payments/return?"+tampered.Encode(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlePostback(t *testing.T) {
	engine := newTestEngine(t, paymentgateway.NewMockGateway(true, testMethods))
	creds := testCredentials(t)

	form := url.Values{
		"status":            {"OPEN"},
		"statusCode":        {"Awaiting payment"},
		"orderID":           {"ORD-2"},
		"paymentID":         {"9002"},
		"transactionID":     {"TX-2"},
		"amount":            {"1234"},
		"currency":          {"EUR"},
		"consumerIPAddress": {"10.0.0.1"},
	}

	w := testutil.DoForm(engine, "/payments/postback", gateway.SignCallback(creds, form))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	got := decode[dto.GatewayResponseDTO](t, resp.Data)
	assert.Equal(t, "callback", got.Channel)
	assert.True(t, got.Pending)
	assert.Contains(t, got.Amount, "12.34")

	w = testutil.DoForm(engine, "/payments/postback", gateway.SignQuery(creds, form))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
