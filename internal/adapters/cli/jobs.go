package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbeltran/stitchops/internal/application/routing/commands"
	"github.com/rbeltran/stitchops/internal/application/routing/services"
)

// NewJobsCommand creates the jobs command with subcommands
func NewJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage manufacturer jobs",
		Long: `Manage manufacturer jobs.

Examples:
  stitchops jobs assign <job-id> --manufacturer 3 --reason "rush order" --by ops@acme
  stitchops jobs reroute <job-id>`,
	}

	cmd.AddCommand(newJobsAssignCommand())
	cmd.AddCommand(newJobsRerouteCommand())

	return cmd
}

// newJobsAssignCommand creates the jobs assign subcommand
func newJobsAssignCommand() *cobra.Command {
	var manufacturerID uint
	var reason string
	var assignedBy string

	cmd := &cobra.Command{
		Use:   "assign <job-id>",
		Short: "Manually assign a job to a manufacturer",
		Long: `Manually assign a job to a manufacturer.

Manual assignment is an operator decision and overrides availability:
an inactive or at-capacity manufacturer is accepted with a warning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if manufacturerID == 0 {
				return fmt.Errorf("--manufacturer flag is required")
			}
			if assignedBy == "" {
				return fmt.Errorf("--by flag is required")
			}

			app, err := NewApp(configPath, verbose)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Mediator.Send(app.Context(cmd.Context()), &commands.ManuallyAssignJobCommand{
				JobID:          args[0],
				ManufacturerID: manufacturerID,
				Reason:         reason,
				AssignedBy:     assignedBy,
			})
			if err != nil {
				return err
			}

			result := resp.(*services.AssignmentResult)
			if !result.Success {
				return fmt.Errorf("assignment failed: %s", result.Error)
			}
			fmt.Printf("Job %s assigned to manufacturer %d\n", args[0], manufacturerID)
			return nil
		},
	}

	cmd.Flags().UintVar(&manufacturerID, "manufacturer", 0, "Target manufacturer ID (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the manual assignment")
	cmd.Flags().StringVar(&assignedBy, "by", "", "Operator making the assignment (required)")

	return cmd
}

// newJobsRerouteCommand creates the jobs reroute subcommand
func newJobsRerouteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reroute <job-id>",
		Short: "Re-run routing for the order behind a job",
		Long: `Re-run routing for the order behind a job.

The whole order is routed again with current catalog and availability
data, and every manufacturer group is re-materialized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath, verbose)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Mediator.Send(app.Context(cmd.Context()), &commands.RerouteJobCommand{
				JobID: args[0],
			})
			if err != nil {
				return err
			}

			result := resp.(*commands.RerouteJobResponse)
			printRoutingResult(result.Routing)
			printMaterializationResult(result.Materialization)
			return nil
		},
	}

	return cmd
}
