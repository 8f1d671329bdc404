package methods

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appPayment "github.com/orris-inc/paygate/internal/application/payment"
	domainPayment "github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/infrastructure/config"
	"github.com/orris-inc/paygate/internal/interfaces/cli/bootstrap"
	sharedConfig "github.com/orris-inc/paygate/internal/shared/config"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

func TestBuildFilter(t *testing.T) {
	cmd := NewCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--amount", "0", "--country", "nl"}))

	f := buildFilter(cmd)
	require.NotNil(t, f.Amount, "an explicit zero amount still filters")
	assert.Equal(t, int64(0), *f.Amount)
	require.NotNil(t, f.Country)
	assert.Equal(t, "NL", *f.Country)
	assert.Nil(t, f.Currency)

	country, currency = "", ""
}

func TestPrintMethods(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	printMethods(cmd, []domainPayment.Capabilities{{
		Method:     "IDEAL",
		Countries:  []string{"NL"},
		Currencies: []string{"EUR"},
		Amount:     domainPayment.AmountRange{Minimum: 100, Maximum: 5000},
	}})

	out := buf.String()
	assert.Contains(t, out, "METHOD")
	assert.Contains(t, out, "IDEAL")
	assert.Contains(t, out, "5000")
}

func TestDropCachedMethods(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Merchant: sharedConfig.MerchantConfig{ID: "12345", Secret: "abcdefghijklmnopqrstuvwxyz0123456789ABCD"},
		Gateway:  sharedConfig.GatewayConfig{Mock: true},
		Catalog:  sharedConfig.CatalogConfig{CacheTTLMinutes: 5},
		Journal:  sharedConfig.JournalConfig{Backend: "none"},
	}

	t.Run("without redis", func(t *testing.T) {
		app, err := bootstrap.Build(ctx, cfg, logger.NewNop())
		require.NoError(t, err)
		defer app.Close()

		assert.NoError(t, dropCachedMethods(ctx, app))
	})

	t.Run("with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port, err := strconv.Atoi(mr.Port())
		require.NoError(t, err)
		withRedis := *cfg
		withRedis.Redis = sharedConfig.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}

		app, err := bootstrap.Build(ctx, &withRedis, logger.NewNop())
		require.NoError(t, err)
		defer app.Close()

		_, err = app.Service.EligibleMethods(ctx, appPayment.MethodFilter{})
		require.NoError(t, err)
		require.True(t, mr.Exists("paygate:methods:12345"))

		require.NoError(t, dropCachedMethods(ctx, app))
		assert.False(t, mr.Exists("paygate:methods:12345"))
	})
}
