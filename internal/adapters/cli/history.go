package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbeltran/stitchops/internal/application/routing/queries"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the routing audit trail, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath, verbose)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Mediator.Send(app.Context(cmd.Context()), &queries.GetRoutingHistoryQuery{
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return err
			}

			entries := resp.([]*routing.HistoryEntry)
			if len(entries) == 0 {
				fmt.Println("No routing history")
				return nil
			}

			fmt.Printf("%-38s %-10s %-12s %-20s %-8s %-14s\n",
				"JOB", "ORDER", "CODE", "MANUFACTURER", "BY", "STATUS")
			for _, e := range entries {
				manufacturer := "-"
				if e.ManufacturerName != "" {
					manufacturer = e.ManufacturerName
				} else if e.ManufacturerID != nil {
					manufacturer = fmt.Sprintf("#%d", *e.ManufacturerID)
				}
				fmt.Printf("%-38s %-10d %-12s %-20s %-8s %-14s\n",
					e.JobID, e.OrderID, e.OrderCode, manufacturer, e.RoutedBy, e.SimplifiedStatus)
				if verbose {
					fmt.Printf("  reason: %s\n", e.RoutingReason)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0,
		fmt.Sprintf("Maximum entries to show (default %d, max %d)",
			queries.DefaultHistoryLimit, queries.MaxHistoryLimit))
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")

	return cmd
}
