package usecases

import (
	"context"
	"errors"
	"strconv"

	"github.com/orris-inc/paygate/internal/application/payment/paymentgateway"
	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	"github.com/orris-inc/paygate/internal/domain/payment"
	vo "github.com/orris-inc/paygate/internal/domain/payment/valueobjects"
	apperrors "github.com/orris-inc/paygate/internal/shared/errors"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

var errNoGateway = errors.New("nil gateway")

// ProcessPaymentUseCase submits a validated payment request to the gateway.
// A request with a payment method goes through the webservice path, all
// others through the basic path. There is a single attempt per call.
type ProcessPaymentUseCase struct {
	creds      merchantvo.Credentials
	gateway    paymentgateway.Gateway
	returnURLs paymentgateway.ReturnURLs
	journal    payment.JournalRepository // Optional
	logger     logger.Interface
}

func NewProcessPaymentUseCase(
	creds merchantvo.Credentials,
	gateway paymentgateway.Gateway,
	returnURLs paymentgateway.ReturnURLs,
	logger logger.Interface,
) *ProcessPaymentUseCase {
	return &ProcessPaymentUseCase{
		creds:      creds,
		gateway:    gateway,
		returnURLs: returnURLs,
		logger:     logger,
	}
}

// SetJournal sets the journal (optional dependency injection)
func (uc *ProcessPaymentUseCase) SetJournal(journal payment.JournalRepository) {
	uc.journal = journal
}

func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, req *payment.PaymentRequest) (*payment.SubmissionResult, error) {
	fields, err := req.Fields(ctx)
	if err != nil {
		// the caller's own validation errors are not gateway failures
		return nil, err
	}

	if uc.gateway == nil {
		return nil, apperrors.NewAPIFailure("payment gateway is not configured", errNoGateway)
	}

	gp := paymentgateway.NewPayment()
	for _, name := range payment.FieldNames() {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if err := gp.Set(name, v); err != nil {
			uc.logger.Warnw("gateway rejected payment field", "field", name, "error", err)
			return nil, apperrors.NewAPIFailure("failed to prepare gateway payment", err)
		}
	}

	var result *payment.SubmissionResult
	if fields[payment.FieldPaymentMethod] != "" {
		result, err = uc.checkoutWebservice(ctx, gp)
	} else {
		result, err = uc.checkoutBasic(ctx, gp)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("payment submitted",
		"order_id", fields[payment.FieldOrderID],
		"payment_method", fields[payment.FieldPaymentMethod],
		"amount", describeAmount(fields),
		"webservice", result.IsWebservice())

	uc.record(ctx, payment.NewSubmissionEntry(fields, result))
	return result, nil
}

func (uc *ProcessPaymentUseCase) checkoutBasic(ctx context.Context, gp *paymentgateway.Payment) (*payment.SubmissionResult, error) {
	res, err := uc.gateway.CheckoutBasic(ctx, uc.creds, gp)
	if err != nil {
		uc.logger.Errorw("basic checkout failed", "order_id", gp.OrderID(), "error", err)
		return nil, apperrors.NewAPIFailure("basic checkout failed", err)
	}
	return &payment.SubmissionResult{PaymentURL: res.PaymentURL}, nil
}

func (uc *ProcessPaymentUseCase) checkoutWebservice(ctx context.Context, gp *paymentgateway.Payment) (*payment.SubmissionResult, error) {
	res, err := uc.gateway.CheckoutWebservice(ctx, uc.creds, gp, uc.returnURLs)
	if err != nil {
		uc.logger.Errorw("webservice checkout failed", "order_id", gp.OrderID(), "error", err)
		return nil, apperrors.NewAPIFailure("webservice checkout failed", err)
	}
	txID := res.TransactionID
	providerTxID := res.ProviderTransactionID
	testMode := res.TestMode
	return &payment.SubmissionResult{
		PaymentURL:            res.PaymentURL,
		TransactionID:         &txID,
		ProviderTransactionID: &providerTxID,
		TestMode:              &testMode,
	}, nil
}

func (uc *ProcessPaymentUseCase) record(ctx context.Context, entry *payment.JournalEntry) {
	if uc.journal == nil {
		return
	}
	if err := uc.journal.Append(ctx, entry); err != nil {
		uc.logger.Warnw("failed to record journal entry",
			"kind", entry.Kind(),
			"order_id", entry.OrderID(),
			"error", err)
	}
}

func describeAmount(fields map[string]string) string {
	amount, err := strconv.ParseInt(fields[payment.FieldAmount], 10, 64)
	if err != nil {
		return fields[payment.FieldAmount]
	}
	return vo.NewMoney(amount, fields[payment.FieldCurrency]).String()
}
