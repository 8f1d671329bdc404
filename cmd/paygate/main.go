package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/orris-inc/paygate/internal/interfaces/cli/journal"
	"github.com/orris-inc/paygate/internal/interfaces/cli/methods"
	"github.com/orris-inc/paygate/internal/interfaces/cli/migrate"
	"github.com/orris-inc/paygate/internal/interfaces/cli/server"
	"github.com/orris-inc/paygate/internal/interfaces/cli/watch"
	"github.com/orris-inc/paygate/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "paygate",
		Short:   "Paygate - payment gateway integration service",
		Long:    `Paygate builds, validates and submits payment requests to the gateway and verifies the responses it sends back.`,
		Version: version.Version,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		methods.NewCommand(),
		watch.NewCommand(),
		journal.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
