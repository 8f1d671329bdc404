package usecases

import (
	"context"
	"net/url"

	"github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

// ResponseFactory builds an unloaded response bound to the merchant credentials.
type ResponseFactory func() *payment.PaymentResponse

// StatusPublisher notifies other services of verified responses.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, resp *payment.PaymentResponse) error
}

// HandleGatewayResponseUseCase verifies a gateway response arriving on either
// channel and records it in the journal.
type HandleGatewayResponseUseCase struct {
	newResponse ResponseFactory
	journal     payment.JournalRepository // Optional
	publisher   StatusPublisher           // Optional
	logger      logger.Interface
}

func NewHandleGatewayResponseUseCase(newResponse ResponseFactory, logger logger.Interface) *HandleGatewayResponseUseCase {
	return &HandleGatewayResponseUseCase{
		newResponse: newResponse,
		logger:      logger,
	}
}

// SetJournal sets the journal (optional dependency injection)
func (uc *HandleGatewayResponseUseCase) SetJournal(journal payment.JournalRepository) {
	uc.journal = journal
}

// SetPublisher sets the status publisher (optional dependency injection)
func (uc *HandleGatewayResponseUseCase) SetPublisher(publisher StatusPublisher) {
	uc.publisher = publisher
}

// Execute loads values from the given channel. Verification failures are
// returned unchanged so the caller can map them.
func (uc *HandleGatewayResponseUseCase) Execute(ctx context.Context, channel payment.Channel, values url.Values) (*payment.PaymentResponse, error) {
	resp := uc.newResponse()

	var err error
	if channel == payment.ChannelCallback {
		err = resp.LoadFromCallback(ctx, values)
	} else {
		err = resp.LoadFromQuery(ctx, values)
	}
	if err != nil {
		uc.logger.Warnw("gateway response rejected",
			"channel", channel,
			"order_id", values.Get("orderID"),
			"checksum", values.Get("checksum"),
			"error", err)
		return nil, err
	}

	uc.logger.Infow("gateway response verified",
		"channel", channel,
		"order_id", resp.OrderID(),
		"status", resp.Status(),
		"final", resp.Status().IsFinal())

	if uc.journal != nil {
		entry := payment.NewResponseEntry(resp)
		if err := uc.journal.Append(ctx, entry); err != nil {
			uc.logger.Warnw("failed to record journal entry",
				"kind", entry.Kind(),
				"order_id", entry.OrderID(),
				"error", err)
		}
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishStatus(ctx, resp); err != nil {
			uc.logger.Warnw("failed to publish payment status",
				"order_id", resp.OrderID(),
				"error", err)
		}
	}

	return resp, nil
}
