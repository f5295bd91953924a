package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rbeltran/stitchops/internal/application/routing/commands"
	"github.com/rbeltran/stitchops/internal/application/routing/services"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// NewRouteCommand creates the route command
func NewRouteCommand() *cobra.Command {
	var persist bool

	cmd := &cobra.Command{
		Use:   "route <order-id>",
		Short: "Route an order's line items to manufacturers",
		Long: `Route an order's line items to manufacturers.

Without --persist this is a dry run: the routing plan is printed but no
jobs are created. With --persist the plan is materialized as manufacturer
jobs, one per manufacturer group.

Examples:
  stitchops route 42
  stitchops route 42 --persist`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := parseOrderID(args[0])
			if err != nil {
				return err
			}

			app, err := NewApp(configPath, verbose)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := app.Context(cmd.Context())

			if !persist {
				resp, err := app.Mediator.Send(ctx, &commands.RouteOrderCommand{OrderID: orderID})
				if err != nil {
					return err
				}
				printRoutingResult(resp.(*routing.OrderRoutingResult))
				return nil
			}

			resp, err := app.Mediator.Send(ctx, &commands.CreateManufacturingJobsCommand{OrderID: orderID})
			if err != nil {
				return err
			}
			printMaterializationResult(resp.(*services.MaterializationResult))
			return nil
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "Create manufacturer jobs from the routing plan")

	return cmd
}

func parseOrderID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid order id %q: %w", arg, err)
	}
	return uint(id), nil
}

func printRoutingResult(result *routing.OrderRoutingResult) {
	fmt.Printf("Order %d: %d line item(s), %d manufacturer group(s)\n",
		result.OrderID, len(result.Decisions), len(result.Groups))
	if result.SplitOrder {
		fmt.Println("Split order: line items route to more than one manufacturer")
	}

	for _, d := range result.Decisions {
		target := "PENDING"
		if d.ManufacturerID != nil {
			target = fmt.Sprintf("manufacturer %d", *d.ManufacturerID)
		}
		fmt.Printf("  line item %d -> %s (%s)\n", d.LineItemID, target, d.RoutedBy)
		if verbose {
			fmt.Printf("    reason: %s\n", d.Reason())
		}
	}

	if len(result.PendingAssignment) > 0 {
		fmt.Printf("%d line item(s) need manual assignment\n", len(result.PendingAssignment))
	}
}

func printMaterializationResult(result *services.MaterializationResult) {
	for _, job := range result.Jobs {
		target := "PENDING"
		if job.ManufacturerID != nil {
			target = fmt.Sprintf("manufacturer %d", *job.ManufacturerID)
		}
		fmt.Printf("  job %s -> %s\n", job.JobID, target)
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	fmt.Printf("Created/updated %d job(s), %d error(s)\n", len(result.Jobs), len(result.Errors))
}
