package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/orris-inc/paygate/internal/application/payment/paymentgateway"
	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	"github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/shared/biztime"
	"github.com/orris-inc/paygate/internal/shared/logger"
	"github.com/orris-inc/paygate/internal/shared/utils/logutil"
)

const (
	pathBasicCheckout      = "/basic/checkout"
	pathWebserviceCheckout = "/webservice/checkout"
	pathMethods            = "/webservice/methods"

	headerMerchantID = "X-Merchant-ID"
	headerTimestamp  = "X-Timestamp"
	headerChecksum   = "X-Checksum"

	// Maximum response body size accepted from the gateway (1MB)
	maxResponseSize = 1 << 20
	// Length of the body excerpt carried by StatusError
	excerptLength = 200
)

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Body)
}

type checkoutResponse struct {
	PaymentScreenURL      string `json:"paymentScreenURL"`
	PaymentID             string `json:"paymentID"`
	ProviderTransactionID string `json:"providerTransactionID"`
	TestMode              bool   `json:"testMode"`
}

type methodsResponse struct {
	PaymentMethods []payment.Capabilities `json:"paymentMethods"`
}

// Client talks JSON to the gateway over HTTPS. Every request is signed with
// the merchant's shared secret.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

// NewClient creates a gateway client. The http.Client's timeout bounds every call.
func NewClient(baseURL string, httpClient *http.Client, logger logger.Interface) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Ensure Client implements Gateway
var _ paymentgateway.Gateway = (*Client)(nil)

func (c *Client) CheckoutBasic(ctx context.Context, creds merchantvo.Credentials, p *paymentgateway.Payment) (*paymentgateway.CheckoutResult, error) {
	var resp checkoutResponse
	if err := c.do(ctx, creds, http.MethodPost, pathBasicCheckout, p.Fields(), &resp); err != nil {
		return nil, err
	}
	if resp.PaymentScreenURL == "" {
		return nil, fmt.Errorf("gateway returned no payment url for order %s", p.OrderID())
	}
	return &paymentgateway.CheckoutResult{PaymentURL: resp.PaymentScreenURL}, nil
}

func (c *Client) CheckoutWebservice(ctx context.Context, creds merchantvo.Credentials, p *paymentgateway.Payment, urls paymentgateway.ReturnURLs) (*paymentgateway.CheckoutResult, error) {
	body := p.Fields()
	body["successUrl"] = urls.Success
	body["errorUrl"] = urls.Error

	var resp checkoutResponse
	if err := c.do(ctx, creds, http.MethodPost, pathWebserviceCheckout, body, &resp); err != nil {
		return nil, err
	}
	if resp.PaymentScreenURL == "" || resp.PaymentID == "" {
		return nil, fmt.Errorf("gateway returned an incomplete checkout for order %s", p.OrderID())
	}
	return &paymentgateway.CheckoutResult{
		PaymentURL:            resp.PaymentScreenURL,
		TransactionID:         resp.PaymentID,
		ProviderTransactionID: resp.ProviderTransactionID,
		TestMode:              resp.TestMode,
	}, nil
}

func (c *Client) Methods(ctx context.Context, creds merchantvo.Credentials) ([]payment.Capabilities, error) {
	var resp methodsResponse
	if err := c.do(ctx, creds, http.MethodGet, pathMethods, nil, &resp); err != nil {
		return nil, err
	}
	return resp.PaymentMethods, nil
}

func (c *Client) do(ctx context.Context, creds merchantvo.Credentials, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	timestamp := biztime.GatewayTimestamp(biztime.NowUTC())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerMerchantID, creds.MerchantID.String())
	req.Header.Set(headerTimestamp, timestamp)
	req.Header.Set(headerChecksum, Checksum(creds.Secret.Reveal(), creds.MerchantID.String(), timestamp, string(payload)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gateway %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warnw("gateway request failed",
			"path", path,
			"status", resp.StatusCode,
			"merchant_id", creds.MerchantID)
		return &StatusError{StatusCode: resp.StatusCode, Body: logutil.Excerpt(string(data), excerptLength)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}

	c.logger.Debugw("gateway request succeeded", "path", path, "status", resp.StatusCode)
	return nil
}
