package dto

import (
	"strconv"
	"strings"

	domainPayment "github.com/orris-inc/paygate/internal/domain/payment"
	vo "github.com/orris-inc/paygate/internal/domain/payment/valueobjects"
)

type CreatePaymentRequest struct {
	Language      string `json:"language" binding:"required,len=2,alpha"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Currency      string `json:"currency" binding:"required,len=3,alpha"`
	OrderID       string `json:"order_id" binding:"omitempty,max=10"`
	Country       string `json:"country" binding:"omitempty,len=2,alpha"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,max=32"`
	Issuer        string `json:"issuer" binding:"omitempty,max=64"`
	Reference     string `json:"reference" binding:"omitempty,max=128"`
	Description   string `json:"description" binding:"omitempty,max=255"`
}

// CountryFilter returns the country for method filtering, or nil when absent.
func (r *CreatePaymentRequest) CountryFilter() *string {
	if r.Country == "" {
		return nil
	}
	country := strings.ToUpper(r.Country)
	return &country
}

// Apply copies the request onto a domain payment request. Optional values
// are only set when present. The first setter error is returned.
func (r *CreatePaymentRequest) Apply(req *domainPayment.PaymentRequest) error {
	steps := []func() error{
		func() error { return req.SetLanguage(strings.ToUpper(r.Language)) },
		func() error { return req.SetAmount(r.Amount) },
		func() error { return req.SetCurrency(strings.ToUpper(r.Currency)) },
		func() error { return req.SetOrderID(r.OrderID) },
	}
	optional := []struct {
		value string
		set   func(string) error
	}{
		{strings.ToUpper(r.Country), req.SetCountry},
		{strings.ToUpper(r.PaymentMethod), req.SetPaymentMethod},
		{r.Issuer, req.SetIssuer},
		{r.Reference, req.SetReference},
		{r.Description, req.SetDescription},
	}
	for _, o := range optional {
		if o.value == "" {
			continue
		}
		value, set := o.value, o.set
		steps = append(steps, func() error { return set(value) })
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

type CreatePaymentResponse struct {
	OrderID               string `json:"order_id"`
	PaymentURL            string `json:"payment_url"`
	TransactionID         string `json:"transaction_id,omitempty"`
	ProviderTransactionID string `json:"provider_transaction_id,omitempty"`
	TestMode              *bool  `json:"test_mode,omitempty"`
}

func ToCreatePaymentResponse(orderID string, result *domainPayment.SubmissionResult) CreatePaymentResponse {
	resp := CreatePaymentResponse{
		OrderID:    orderID,
		PaymentURL: result.PaymentURL,
		TestMode:   result.TestMode,
	}
	if result.TransactionID != nil {
		resp.TransactionID = *result.TransactionID
	}
	if result.ProviderTransactionID != nil {
		resp.ProviderTransactionID = *result.ProviderTransactionID
	}
	return resp
}

type PaymentMethodResponse struct {
	Code          string   `json:"code"`
	Countries     []string `json:"countries"`
	Languages     []string `json:"languages"`
	Issuers       []string `json:"issuers,omitempty"`
	Currencies    []string `json:"currencies"`
	MinimumAmount int64    `json:"minimum_amount"`
	MaximumAmount int64    `json:"maximum_amount"`
}

func ToPaymentMethodResponses(methods []domainPayment.Capabilities) []PaymentMethodResponse {
	out := make([]PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		out = append(out, PaymentMethodResponse{
			Code:          m.Method,
			Countries:     m.Countries,
			Languages:     m.Languages,
			Issuers:       m.Issuers,
			Currencies:    m.Currencies,
			MinimumAmount: m.Amount.Minimum,
			MaximumAmount: m.Amount.Maximum,
		})
	}
	return out
}

type GatewayResponseDTO struct {
	Channel           string `json:"channel"`
	Status            string `json:"status"`
	StatusDescription string `json:"status_description"`
	OrderID           string `json:"order_id"`
	Successful        bool   `json:"successful"`
	Pending           bool   `json:"pending"`
	Amount            string `json:"amount,omitempty"`
}

func ToGatewayResponseDTO(resp *domainPayment.PaymentResponse) GatewayResponseDTO {
	out := GatewayResponseDTO{
		Channel:           string(resp.Channel()),
		Status:            resp.Status().String(),
		StatusDescription: resp.StatusDescription(),
		OrderID:           resp.OrderID(),
		Successful:        resp.IsSuccessful(),
		Pending:           resp.IsPending(),
	}
	params := resp.Params()
	if amount, ok := parseMinor(params["amount"]); ok && params["currency"] != "" {
		out.Amount = vo.NewMoney(amount, params["currency"]).String()
	}
	return out
}

func parseMinor(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
