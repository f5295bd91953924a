package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbeltran/stitchops/internal/application/routing/queries"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show routing statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath, verbose)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Mediator.Send(app.Context(cmd.Context()), &queries.GetRoutingStatsQuery{})
			if err != nil {
				return err
			}

			stats := resp.(*routing.Stats)
			fmt.Printf("Total jobs:   %d\n", stats.TotalJobs)
			for _, routedBy := range []routing.RoutedBy{
				routing.RoutedByAuto,
				routing.RoutedByFallback,
				routing.RoutedByManual,
				routing.RoutedByPending,
			} {
				fmt.Printf("  %-10s %d\n", routedBy, stats.ByRoutedBy[routedBy])
			}
			fmt.Printf("Split orders: %d\n", stats.SplitOrders)
			return nil
		},
	}

	return cmd
}
