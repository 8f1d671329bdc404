package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orris-inc/paygate/internal/infrastructure/config"
	"github.com/orris-inc/paygate/internal/infrastructure/pubsub"
	"github.com/orris-inc/paygate/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

var (
	env       string
	finalOnly bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream verified payment status events",
		Long:  `Subscribe to the payment status channel and print one JSON line per verified gateway response. Requires redis.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&finalOnly, "final-only", false, "Only print statuses the gateway will not change on its own")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if !cfg.Redis.Enabled {
		return errors.New("watch requires redis.enabled")
	}
	cfg.Journal.Backend = "none"

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, logger.NewLogger())
	if err != nil {
		return err
	}
	defer app.Close()

	enc := json.NewEncoder(cmd.OutOrStdout())
	err = app.StatusBus.Subscribe(ctx, printer(enc))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printer(enc *json.Encoder) pubsub.PaymentStatusHandler {
	return func(_ context.Context, event pubsub.PaymentStatusEvent) {
		if finalOnly && !event.Final {
			return
		}
		_ = enc.Encode(event)
	}
}
