package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbeltran/stitchops/internal/application/routing/queries"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// NewQueueCommand creates the queue command
func NewQueueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show jobs awaiting manual manufacturer assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath, verbose)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Mediator.Send(app.Context(cmd.Context()), &queries.GetPendingJobsQuery{})
			if err != nil {
				return err
			}

			pending := resp.([]*routing.PendingJob)
			if len(pending) == 0 {
				fmt.Println("No jobs awaiting assignment")
				return nil
			}

			fmt.Printf("%-38s %-10s %-12s %6s %10s\n", "JOB", "ORDER", "CODE", "ITEMS", "TOTAL")
			for _, p := range pending {
				fmt.Printf("%-38s %-10d %-12s %6d %10s\n",
					p.JobID, p.OrderID, p.OrderCode, p.LineItemCount, p.OrderTotal.StringFixed(2))
				if verbose {
					fmt.Printf("  reason: %s\n", p.RoutingReason)
				}
			}
			fmt.Printf("%d job(s) awaiting assignment\n", len(pending))
			return nil
		},
	}

	return cmd
}
