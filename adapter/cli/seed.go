package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/app"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database/migrations"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/commands"
)

var (
	seedEmail    string
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo account with example tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		if err := migrations.Run(ctx, container.DBConn); err != nil {
			return err
		}

		account, err := container.AuthService.Register(ctx, seedEmail, seedPassword, "Demo User")
		if err != nil {
			return fmt.Errorf("failed to create demo account: %w", err)
		}

		tomorrow := time.Now().UTC().Add(24 * time.Hour)
		nextWeek := time.Now().UTC().Add(6 * 24 * time.Hour)

		seeds := []commands.CreateTaskCommand{
			{
				OwnerID:  account.ID,
				Title:    "Finish quarterly report",
				Priority: "high",
				DueDate:  &tomorrow,
				Tags:     []string{"work"},
			},
			{
				OwnerID:     account.ID,
				Title:       "Plan weekend trip",
				Description: "Compare destinations and book accommodation",
				Priority:    "low",
				DueDate:     &nextWeek,
				Tags:        []string{"personal", "travel"},
			},
			{
				OwnerID:    account.ID,
				Title:      "Weekly team sync",
				Priority:   "medium",
				DueDate:    &tomorrow,
				Recurrence: "weekly",
			},
		}

		for _, seed := range seeds {
			if _, err := container.CreateTaskHandler.Handle(ctx, seed); err != nil {
				return fmt.Errorf("failed to seed task %q: %w", seed.Title, err)
			}
		}

		logger.Info("seeded demo data", "email", seedEmail, "tasks", len(seeds))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "demo@mastertasker.dev", "email of the demo account")
	seedCmd.Flags().StringVar(&seedPassword, "password", "demo-password", "password of the demo account")
}
