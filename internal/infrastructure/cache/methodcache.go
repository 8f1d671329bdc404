package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/paygate/internal/application/payment/paymentgateway"
	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	"github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

const (
	methodsKeyPrefix = "paygate:methods:"
	// TTL range is [ttl, ttl + ttl/5) so merchants do not expire together
	methodsTTLJitterRatio = 5
)

// CachingGateway serves Methods from Redis and delegates everything else.
// Checkouts are never cached.
type CachingGateway struct {
	paymentgateway.Gateway
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewCachingGateway(inner paymentgateway.Gateway, client *redis.Client, ttl time.Duration, logger logger.Interface) *CachingGateway {
	return &CachingGateway{
		Gateway: inner,
		client:  client,
		ttl:     ttl,
		logger:  logger,
	}
}

// Ensure CachingGateway implements Gateway
var _ paymentgateway.Gateway = (*CachingGateway)(nil)

func (c *CachingGateway) key(merchant merchantvo.MerchantID) string {
	return methodsKeyPrefix + merchant.String()
}

// Methods returns the cached method list, fetching and storing it on a miss.
// Redis failures fall through to the gateway.
func (c *CachingGateway) Methods(ctx context.Context, creds merchantvo.Credentials) ([]payment.Capabilities, error) {
	key := c.key(creds.MerchantID)

	cached, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var methods []payment.Capabilities
		if jsonErr := json.Unmarshal(cached, &methods); jsonErr == nil {
			c.logger.Debugw("payment methods served from cache", "merchant_id", creds.MerchantID, "count", len(methods))
			return methods, nil
		}
		c.logger.Warnw("discarding unreadable methods cache entry", "merchant_id", creds.MerchantID)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warnw("methods cache unavailable", "merchant_id", creds.MerchantID, "error", err)
	}

	methods, err := c.Gateway.Methods(ctx, creds)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, key, methods); err != nil {
		c.logger.Warnw("failed to cache payment methods", "merchant_id", creds.MerchantID, "error", err)
	}
	return methods, nil
}

// Invalidate drops the cached method list for a merchant.
func (c *CachingGateway) Invalidate(ctx context.Context, merchant merchantvo.MerchantID) error {
	if err := c.client.Del(ctx, c.key(merchant)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate methods cache: %w", err)
	}
	return nil
}

// Refresh fetches the method list from the gateway and overwrites the cache
// entry, so checkouts never wait for a cold fetch.
func (c *CachingGateway) Refresh(ctx context.Context, creds merchantvo.Credentials) (int, error) {
	methods, err := c.Gateway.Methods(ctx, creds)
	if err != nil {
		return 0, err
	}
	if err := c.store(ctx, c.key(creds.MerchantID), methods); err != nil {
		return 0, err
	}
	return len(methods), nil
}

// RefreshJob binds Refresh to one merchant for periodic execution.
type RefreshJob struct {
	gateway *CachingGateway
	creds   merchantvo.Credentials
}

func NewRefreshJob(gateway *CachingGateway, creds merchantvo.Credentials) *RefreshJob {
	return &RefreshJob{gateway: gateway, creds: creds}
}

func (j *RefreshJob) Execute(ctx context.Context) (int, error) {
	return j.gateway.Refresh(ctx, j.creds)
}

func (c *CachingGateway) store(ctx context.Context, key string, methods []payment.Capabilities) error {
	data, err := json.Marshal(methods)
	if err != nil {
		return fmt.Errorf("failed to encode methods: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("failed to write methods cache: %w", err)
	}
	return nil
}

func (c *CachingGateway) ttlWithJitter() time.Duration {
	span := int64(c.ttl / methodsTTLJitterRatio)
	if span <= 0 {
		return c.ttl
	}
	return c.ttl + time.Duration(rand.Int64N(span))
}
