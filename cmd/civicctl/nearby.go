package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/civicdesk/issue-service/internal/persistence"
	"github.com/civicdesk/issue-service/internal/repository"
	"github.com/civicdesk/issue-service/internal/service"
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List stored reports within a radius of a point",
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
			return eris.New("nearby: POSTGRES_DSN is not set")
		}

		lat, _ := cmd.Flags().GetFloat64("lat")
		long, _ := cmd.Flags().GetFloat64("long")
		radius, _ := cmd.Flags().GetFloat64("radius")
		limit, _ := cmd.Flags().GetInt("limit")

		svc := service.NewReportService(service.ReportDependencies{
			ReportRepo: repository.NewReportRepository(pool),
			Logger:     logger,
			Geo:        cfg.Geo,
		})
		matches, err := svc.FindNearby(ctx, service.NearbyQuery{Latitude: lat, Longitude: long, RadiusKm: radius, Limit: limit})
		if err != nil {
			return eris.Wrap(err, "nearby")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tDISTANCE_KM\tCATEGORY\tSTATUS\tTITLE")
		for _, m := range matches {
			fmt.Fprintf(w, "%s\t%.3f\t%s\t%s\t%s\n", m.Record.ExternalKey, m.DistanceKm, m.Record.Category, m.Record.Status, m.Record.Title)
		}
		return w.Flush()
	},
}

func init() {
	nearbyCmd.Flags().Float64("lat", 0, "latitude of the query point")
	nearbyCmd.Flags().Float64("long", 0, "longitude of the query point")
	nearbyCmd.Flags().Float64("radius", 1, "search radius in kilometres")
	nearbyCmd.Flags().Int("limit", 0, "maximum number of results (0 for all)")
	_ = nearbyCmd.MarkFlagRequired("lat")
	_ = nearbyCmd.MarkFlagRequired("long")
	rootCmd.AddCommand(nearbyCmd)
}
