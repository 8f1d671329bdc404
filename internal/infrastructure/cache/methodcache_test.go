package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/paygate/internal/application/payment/paymentgateway"
	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	"github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/shared/config"
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

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func testCreds(t *testing.T) merchantvo.Credentials {
	t.Helper()
	creds, err := merchantvo.NewCredentials("12345", "abcdefghijklmnopqrstuvwxyz0123456789ABCD")
	require.NoError(t, err)
	return creds
}

var idealOnly = []payment.Capabilities{{
	Method:     "IDEAL",
	Countries:  []string{"NL"},
	Languages:  []string{payment.WildcardEntry},
	Currencies: []string{"EUR"},
	Amount:     payment.AmountRange{Minimum: 100, Maximum: 5000},
}}

func TestCachingGateway_MissThenHit(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := new(mockGateway)
	inner.On("Methods", mock.Anything, mock.Anything).Return(idealOnly, nil).Once()

	gw := NewCachingGateway(inner, client, time.Hour, logger.NewNop())
	ctx := context.Background()
	creds := testCreds(t)

	first, err := gw.Methods(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, idealOnly, first)
	assert.True(t, mr.Exists("paygate:methods:12345"))

	ttl := mr.TTL("paygate:methods:12345")
	assert.GreaterOrEqual(t, ttl, time.Hour)
	assert.Less(t, ttl, time.Hour+time.Hour/5)

	second, err := gw.Methods(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, idealOnly, second)

	inner.AssertNumberOfCalls(t, "Methods", 1)
}

func TestCachingGateway_Expiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := new(mockGateway)
	inner.On("Methods", mock.Anything, mock.Anything).Return(idealOnly, nil)

	gw := NewCachingGateway(inner, client, time.Minute, logger.NewNop())
	ctx := context.Background()

	_, err := gw.Methods(ctx, testCreds(t))
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = gw.Methods(ctx, testCreds(t))
	require.NoError(t, err)
	inner.AssertNumberOfCalls(t, "Methods", 2)
}

func TestCachingGateway_FetchErrorNotCached(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := new(mockGateway)
	cause := errors.New("gateway down")
	inner.On("Methods", mock.Anything, mock.Anything).Return(nil, cause)

	gw := NewCachingGateway(inner, client, time.Hour, logger.NewNop())
	_, err := gw.Methods(context.Background(), testCreds(t))
	assert.ErrorIs(t, err, cause)
	assert.False(t, mr.Exists("paygate:methods:12345"))
}

func TestCachingGateway_CorruptEntryRefetched(t *testing.T) {
	mr, client := setupTestRedis(t)
	require.NoError(t, mr.Set("paygate:methods:12345", "{not json"))

	inner := new(mockGateway)
	inner.On("Methods", mock.Anything, mock.Anything).Return(idealOnly, nil).Once()

	gw := NewCachingGateway(inner, client, time.Hour, logger.NewNop())
	methods, err := gw.Methods(context.Background(), testCreds(t))
	require.NoError(t, err)
	assert.Equal(t, idealOnly, methods)
	inner.AssertExpectations(t)
}

func TestCachingGateway_RedisDownFallsThrough(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	inner := new(mockGateway)
	inner.On("Methods", mock.Anything, mock.Anything).Return(idealOnly, nil)

	gw := NewCachingGateway(inner, client, time.Hour, logger.NewNop())
	methods, err := gw.Methods(context.Background(), testCreds(t))
	require.NoError(t, err)
	assert.Equal(t, idealOnly, methods)
}

func TestCachingGateway_InvalidateAndDelegation(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := new(mockGateway)
	inner.On("Methods", mock.Anything, mock.Anything).Return(idealOnly, nil)
	inner.On("CheckoutBasic", mock.Anything, mock.Anything, mock.Anything).
		Return(&paymentgateway.CheckoutResult{PaymentURL: "https://pay"}, nil)

	gw := NewCachingGateway(inner, client, time.Hour, logger.NewNop())
	ctx := context.Background()
	creds := testCreds(t)

	_, err := gw.Methods(ctx, creds)
	require.NoError(t, err)
	require.NoError(t, gw.Invalidate(ctx, creds.MerchantID))
	assert.False(t, mr.Exists("paygate:methods:12345"))

	res, err := gw.CheckoutBasic(ctx, creds, paymentgateway.NewPayment())
	require.NoError(t, err)
	assert.Equal(t, "https://pay", res.PaymentURL)
}

func TestNewRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewRedisClient(context.Background(), &config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), &config.RedisConfig{Host: "127.0.0.1", Port: port})
	assert.Error(t, err)
}

func TestCachingGateway_RefreshJob(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := new(mockGateway)
	inner.On("Methods", mock.Anything, mock.Anything).Return(idealOnly, nil).Twice()

	gw := NewCachingGateway(inner, client, time.Hour, logger.NewNop())
	creds := testCreds(t)
	ctx := context.Background()

	_, err := gw.Methods(ctx, creds)
	require.NoError(t, err)

	n, err := NewRefreshJob(gw, creds).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, mr.Exists("paygate:methods:12345"))

	_, err = gw.Methods(ctx, creds)
	require.NoError(t, err)
	inner.AssertNumberOfCalls(t, "Methods", 2)
}

func TestCachingGateway_RefreshKeepsEntryOnFailure(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := new(mockGateway)
	inner.On("Methods", mock.Anything, mock.Anything).Return(idealOnly, nil).Once()
	inner.On("Methods", mock.Anything, mock.Anything).Return(nil, errors.New("503")).Once()

	gw := NewCachingGateway(inner, client, time.Hour, logger.NewNop())
	creds := testCreds(t)

	_, err := gw.Methods(context.Background(), creds)
	require.NoError(t, err)

	_, err = gw.Refresh(context.Background(), creds)
	require.Error(t, err)
	assert.True(t, mr.Exists("paygate:methods:12345"), "a failed refresh leaves the last good entry")
}
