package cli

import (
	"collateral-ledger/internal/infrastructure/db"
	"collateral-ledger/internal/infrastructure/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Migrate and initialize the ledger with LEDGER_ADMIN and the configured params",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateBootstrap(); err != nil {
			return err
		}
		d, err := wire(cfg)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := db.Migrate(d.db); err != nil {
			return err
		}
		state, err := d.uc.Bootstrap(cmd.Context(), cfg.AdminIdentity(), cfg.LedgerParams())
		if err != nil {
			return err
		}
		logger.For(cmd.Context()).WithFields(logrus.Fields{
			"admin":       state.Administrator.Hex(),
			"total_loans": state.TotalLoans,
			"paused":      state.Paused,
		}).Info("ledger bootstrapped")
		return nil
	},
}
