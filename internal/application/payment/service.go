package payment

import (
	"context"
	"sort"

	"github.com/orris-inc/paygate/internal/application/payment/paymentgateway"
	"github.com/orris-inc/paygate/internal/application/payment/usecases"
	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	domainPayment "github.com/orris-inc/paygate/internal/domain/payment"
	apperrors "github.com/orris-inc/paygate/internal/shared/errors"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

// ServiceOptions carries the optional collaborators of a Service.
type ServiceOptions struct {
	ReturnURLs paymentgateway.ReturnURLs
	Journal    domainPayment.JournalRepository
	Publisher  usecases.StatusPublisher
}

// Service binds one merchant's credentials to the gateway, the capability
// catalog and the response verifier.
type Service struct {
	creds    merchantvo.Credentials
	gateway  paymentgateway.Gateway
	catalog  domainPayment.CapabilityCatalog
	verifier domainPayment.ResponseVerifier
	opts     ServiceOptions
	logger   logger.Interface
}

func NewService(
	merchant merchantvo.MerchantID,
	secret merchantvo.SharedSecret,
	gateway paymentgateway.Gateway,
	catalog domainPayment.CapabilityCatalog,
	verifier domainPayment.ResponseVerifier,
	logger logger.Interface,
	opts ServiceOptions,
) *Service {
	return &Service{
		creds:    merchantvo.Credentials{MerchantID: merchant, Secret: secret},
		gateway:  gateway,
		catalog:  catalog,
		verifier: verifier,
		opts:     opts,
		logger:   logger,
	}
}

// MethodFilter narrows the gateway catalog. A nil field applies no filter.
type MethodFilter struct {
	Amount   *int64
	Country  *string
	Currency *string
}

func (f MethodFilter) matches(c domainPayment.Capabilities) bool {
	if f.Amount != nil && !c.Amount.Contains(*f.Amount) {
		return false
	}
	if f.Country != nil && !c.SupportsCountry(*f.Country) {
		return false
	}
	if f.Currency != nil && !c.SupportsCurrency(*f.Currency) {
		return false
	}
	return true
}

// EligibleMethods fetches the gateway catalog and returns the capability
// records that pass the filter, ordered by method code.
func (s *Service) EligibleMethods(ctx context.Context, filter MethodFilter) ([]domainPayment.Capabilities, error) {
	all, err := s.gateway.Methods(ctx, s.creds)
	if err != nil {
		s.logger.Errorw("failed to fetch payment methods", "merchant_id", s.creds.MerchantID, "error", err)
		return nil, apperrors.NewAPIFailure("failed to fetch payment methods", err)
	}

	var eligible []domainPayment.Capabilities
	for _, c := range all {
		if filter.matches(c) {
			eligible = append(eligible, c)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].Method < eligible[j].Method })

	s.logger.Infow("payment methods filtered", "total", len(all), "eligible", len(eligible))
	return eligible, nil
}

// EligibleMethodNames is EligibleMethods reduced to the method codes.
func (s *Service) EligibleMethodNames(ctx context.Context, filter MethodFilter) ([]string, error) {
	eligible, err := s.EligibleMethods(ctx, filter)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(eligible))
	for i, c := range eligible {
		names[i] = c.Method
	}
	return names, nil
}

// NewPaymentRequest returns a request whose payment method is restricted to the
// methods eligible for the given amount, country and currency. Capability
// checks use the eligible records unless the service has its own catalog, in
// which case that catalog decides and may reject an eligible method.
func (s *Service) NewPaymentRequest(ctx context.Context, amount *int64, country, currency *string) (*domainPayment.PaymentRequest, error) {
	eligible, err := s.EligibleMethods(ctx, MethodFilter{Amount: amount, Country: country, Currency: currency})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(eligible))
	for i, c := range eligible {
		names[i] = c.Method
	}

	catalog := s.catalog
	if catalog == nil {
		catalog = domainPayment.NewStaticCatalog(eligible)
	}
	return domainPayment.NewPaymentRequest(catalog, names...), nil
}

// NewSubmitter returns a submitter bound to the service credentials.
func (s *Service) NewSubmitter() *usecases.ProcessPaymentUseCase {
	uc := usecases.NewProcessPaymentUseCase(s.creds, s.gateway, s.opts.ReturnURLs, s.logger)
	if s.opts.Journal != nil {
		uc.SetJournal(s.opts.Journal)
	}
	return uc
}

// NewResponse returns an unloaded response bound to the service credentials.
func (s *Service) NewResponse() *domainPayment.PaymentResponse {
	return domainPayment.NewPaymentResponse(s.creds.MerchantID, s.creds.Secret, s.verifier)
}

// NewResponseHandler returns the use case that verifies inbound gateway
// responses before journaling and publishing them.
func (s *Service) NewResponseHandler() *usecases.HandleGatewayResponseUseCase {
	uc := usecases.NewHandleGatewayResponseUseCase(s.NewResponse, s.logger)
	if s.opts.Journal != nil {
		uc.SetJournal(s.opts.Journal)
	}
	if s.opts.Publisher != nil {
		uc.SetPublisher(s.opts.Publisher)
	}
	return uc
}

// Journal returns the recorded submissions and responses for an order,
// oldest first.
func (s *Service) Journal(ctx context.Context, orderID string) ([]*domainPayment.JournalEntry, error) {
	if s.opts.Journal == nil {
		return nil, apperrors.NewUnsupportedError("payment journal is not configured")
	}
	if orderID == "" {
		return nil, apperrors.NewInvalidArgumentError("order id is required")
	}
	entries, err := s.opts.Journal.ListByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Errorw("failed to read payment journal", "order_id", orderID, "error", err)
		return nil, apperrors.NewInternalError("failed to read payment journal")
	}
	return entries, nil
}

// Credentials exposes the merchant identity. The secret stays masked when printed.
func (s *Service) Credentials() merchantvo.Credentials {
	return s.creds
}
