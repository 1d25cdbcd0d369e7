package cli

import (
	"collateral-ledger/internal/infrastructure/db"
	"collateral-ledger/internal/infrastructure/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the ledger tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := openDB(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		logger.For(cmd.Context()).WithField("driver", cfg.DBDriver).Info("migrated")
		return nil
	},
}
