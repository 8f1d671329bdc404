package journal

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	domainPayment "github.com/orris-inc/paygate/internal/domain/payment"
	vo "github.com/orris-inc/paygate/internal/domain/payment/valueobjects"
	"github.com/orris-inc/paygate/internal/infrastructure/config"
	"github.com/orris-inc/paygate/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/paygate/internal/shared/biztime"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal <order-id>",
		Short: "Show the recorded submissions and gateway responses of an order",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

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
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}
	if cfg.Journal.Backend == "none" {
		return errors.New("journal requires journal.backend gorm or mongo")
	}

	app, err := bootstrap.Build(cmd.Context(), cfg, logger.NewLogger())
	if err != nil {
		return err
	}
	defer app.Close()

	entries, err := app.Service.Journal(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no journal entries for order %s\n", args[0])
		return nil
	}

	printEntries(cmd, entries)
	return nil
}

// printEntries renders times in the merchant timezone.
func printEntries(cmd *cobra.Command, entries []*domainPayment.JournalEntry) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tKIND\tSTATUS\tMETHOD\tAMOUNT\tTRANSACTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			biztime.ToLocal(e.CreatedAt()).Format(time.DateTime),
			e.Kind(),
			orDash(e.Status()),
			orDash(e.PaymentMethod()),
			formatAmount(e),
			orDash(e.TransactionID()))
	}
	w.Flush()
}

func formatAmount(e *domainPayment.JournalEntry) string {
	if e.Amount() == nil {
		return "-"
	}
	return vo.NewMoney(*e.Amount(), e.Currency()).String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
