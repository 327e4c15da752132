package cli

import (
	"github.com/spf13/cobra"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database"
	_ "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database/postgres"
	_ "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database/sqlite"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		conn, err := database.NewConnection(cmd.Context(), database.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := migrations.Run(cmd.Context(), conn); err != nil {
			return err
		}
		logger.Info("migrations applied", "driver", conn.Driver())
		return nil
	},
}
