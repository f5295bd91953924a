package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbeltran/stitchops/internal/application/routing/commands"
)

// NewRouteAllCommand creates the route-all command
func NewRouteAllCommand() *cobra.Command {
	var concurrency int
	var ratePerSecond float64

	cmd := &cobra.Command{
		Use:   "route-all",
		Short: "Route every order that has no manufacturing record yet",
		Long: `Route every order that has no manufacturing record yet.

Orders are routed and materialized with bounded concurrency behind a rate
limiter. One order failing does not stop the rest of the batch.

Examples:
  stitchops route-all
  stitchops route-all --concurrency 8 --rate 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath, verbose)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := app.Context(cmd.Context())

			resp, err := app.Mediator.Send(ctx, &commands.RouteAllUnroutedCommand{
				Concurrency:   concurrency,
				RatePerSecond: ratePerSecond,
			})
			if err != nil {
				return err
			}

			batch := resp.(*commands.RouteAllUnroutedResponse)
			for _, outcome := range batch.Outcomes {
				fmt.Printf("  order %d: %d job(s)", outcome.OrderID, outcome.Jobs)
				if outcome.PendingItems > 0 {
					fmt.Printf(", %d pending item(s)", outcome.PendingItems)
				}
				if outcome.SplitOrder {
					fmt.Print(", split")
				}
				fmt.Println()
				for _, e := range outcome.Errors {
					fmt.Printf("    error: %s\n", e)
				}
			}
			fmt.Printf("Routed %d order(s)\n", batch.OrdersRouted)
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0,
		"Orders routed concurrently (default from config)")
	cmd.Flags().Float64Var(&ratePerSecond, "rate", 0,
		"Orders started per second (default from config)")

	return cmd
}
