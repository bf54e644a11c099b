package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/civicdesk/issue-service/internal/persistence"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer pg.Close()
		if pg.PoolHandle() == nil {
			return eris.New("migrate: POSTGRES_DSN is not set")
		}

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Postgres.MigrationsDir
		}
		applied, err := persistence.RunMigrations(ctx, pg.PoolHandle(), dir, logger)
		if err != nil {
			return eris.Wrap(err, "migrate")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("dir", "", "migrations directory (defaults to POSTGRES_MIGRATIONS_DIR)")
	rootCmd.AddCommand(migrateCmd)
}
