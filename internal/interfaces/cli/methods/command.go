package methods

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	appPayment "github.com/orris-inc/paygate/internal/application/payment"
	domainPayment "github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/infrastructure/config"
	"github.com/orris-inc/paygate/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

var (
	env      string
	amount   int64
	country  string
	currency string
	refresh  bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List payment methods eligible for an amount, country and currency",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in minor units")
	cmd.Flags().StringVar(&country, "country", "", "ISO 3166-1 alpha-2 country code")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Drop the cached method list before listing")

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

	// Listing never journals.
	cfg.Journal.Backend = "none"

	app, err := bootstrap.Build(cmd.Context(), cfg, logger.NewLogger())
	if err != nil {
		return err
	}
	defer app.Close()

	if refresh {
		if err := dropCachedMethods(cmd.Context(), app); err != nil {
			return err
		}
	}

	methods, err := app.Service.EligibleMethods(cmd.Context(), buildFilter(cmd))
	if err != nil {
		return err
	}

	printMethods(cmd, methods)
	return nil
}

// dropCachedMethods forces the next listing to come from the gateway. Without
// redis there is nothing cached.
func dropCachedMethods(ctx context.Context, app *bootstrap.App) error {
	if app.MethodCache == nil {
		return nil
	}
	return app.MethodCache.Invalidate(ctx, app.Service.Credentials().MerchantID)
}

func buildFilter(cmd *cobra.Command) appPayment.MethodFilter {
	var f appPayment.MethodFilter
	if cmd.Flags().Changed("amount") {
		f.Amount = &amount
	}
	if country != "" {
		c := strings.ToUpper(country)
		f.Country = &c
	}
	if currency != "" {
		c := strings.ToUpper(currency)
		f.Currency = &c
	}
	return f
}

func printMethods(cmd *cobra.Command, methods []domainPayment.Capabilities) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tCURRENCIES\tCOUNTRIES\tMIN\tMAX")
	for _, m := range methods {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			m.Method,
			strings.Join(m.Currencies, ","),
			strings.Join(m.Countries, ","),
			m.Amount.Minimum,
			m.Amount.Maximum)
	}
	w.Flush()
}
