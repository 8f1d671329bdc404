// Package pubsub distributes verified payment status changes over Redis Pub/Sub.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/shared/biztime"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

// PaymentStatusEvent is published once per verified gateway response.
type PaymentStatusEvent struct {
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	StatusDescription string `json:"status_description,omitempty"`
	Channel           string `json:"channel"`
	TransactionID     string `json:"transaction_id,omitempty"`
	Final             bool   `json:"final"`
	Timestamp         int64  `json:"timestamp"`
}

// NewPaymentStatusEvent captures a loaded response.
func NewPaymentStatusEvent(resp *payment.PaymentResponse) PaymentStatusEvent {
	txID, _ := resp.Param("transactionID")
	return PaymentStatusEvent{
		OrderID:           resp.OrderID(),
		Status:            resp.Status().String(),
		StatusDescription: resp.StatusDescription(),
		Channel:           string(resp.Channel()),
		TransactionID:     txID,
		Final:             resp.Status().IsFinal(),
		Timestamp:         biztime.NowUTC().Unix(),
	}
}

// PaymentStatusHandler is called for each received event.
type PaymentStatusHandler func(ctx context.Context, event PaymentStatusEvent)

const paymentStatusChannel = "paygate:payment:status"

// RedisPaymentStatusBus publishes and subscribes to payment status events.
type RedisPaymentStatusBus struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisPaymentStatusBus(client *redis.Client, logger logger.Interface) *RedisPaymentStatusBus {
	return &RedisPaymentStatusBus{
		client: client,
		logger: logger,
	}
}

// PublishStatus publishes the status of a verified response.
func (b *RedisPaymentStatusBus) PublishStatus(ctx context.Context, resp *payment.PaymentResponse) error {
	return b.publish(ctx, NewPaymentStatusEvent(resp))
}

func (b *RedisPaymentStatusBus) publish(ctx context.Context, event PaymentStatusEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, paymentStatusChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish payment status event",
			"order_id", event.OrderID,
			"status", event.Status,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("payment status event published",
		"order_id", event.OrderID,
		"status", event.Status,
		"channel", event.Channel,
	)
	return nil
}

// Subscribe blocks until ctx is done, calling handler for every event in
// arrival order. Malformed payloads are skipped.
func (b *RedisPaymentStatusBus) Subscribe(ctx context.Context, handler PaymentStatusHandler) error {
	sub := b.client.Subscribe(ctx, paymentStatusChannel)
	defer sub.Close()

	// Wait for subscription confirmation
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to payment status events", "channel", paymentStatusChannel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("payment status subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("payment status channel closed")
				return nil
			}

			var event PaymentStatusEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal payment status event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			handler(ctx, event)
		}
	}
}
