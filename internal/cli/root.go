package cli

import (
	"fmt"
	"os"

	"collateral-ledger/internal/config"
	"collateral-ledger/internal/infrastructure/logger"

	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	logLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "override LOG_LEVEL")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(bootstrapCmd)
}

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Collateralized lending ledger",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger.Configure(cfg.AppEnv, cfg.LogLevel)
		return cfg.Validate()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
