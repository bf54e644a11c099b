package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/civicdesk/issue-service/internal/events"
	"github.com/civicdesk/issue-service/internal/persistence"
	"github.com/civicdesk/issue-service/internal/repository"
	"github.com/civicdesk/issue-service/internal/service"
	"github.com/civicdesk/issue-service/internal/worker"
)

var closeStaleCmd = &cobra.Command{
	Use:   "close-stale",
	Short: "Run one auto-close sweep over long-resolved reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer pg.Close()
		pool := pg.PoolHandle()
		if pool == nil {
			return eris.New("close-stale: POSTGRES_DSN is not set")
		}

		dispatcher := events.NewInMemoryDispatcher()
		reportRepo := repository.NewReportRepository(pool)
		worker.StartNotificationWorker(dispatcher, reportRepo, logger, cfg.Notification)
		svc := service.NewReportService(service.ReportDependencies{
			ReportRepo:  reportRepo,
			HistoryRepo: repository.NewReportHistoryRepository(pool),
			Dispatcher:  dispatcher,
			Logger:      logger,
			Geo:         cfg.Geo,
		})

		sweeper, err := worker.NewAutoCloseWorker(svc, cfg.AutoClose, logger)
		if err != nil {
			return err
		}
		closed, err := sweeper.RunOnce(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "closed %d report(s)\n", closed)
		return err
	},
}

func init() {
	rootCmd.AddCommand(closeStaleCmd)
}
