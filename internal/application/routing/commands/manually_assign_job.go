package commands

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/application/common"
	"github.com/rbeltran/stitchops/internal/application/routing/services"
)

// ManuallyAssignJobCommand forces a job to a specific manufacturer on
// operator authority.
type ManuallyAssignJobCommand struct {
	JobID          string
	ManufacturerID uint
	Reason         string
	AssignedBy     string
}

// ManuallyAssignJobHandler handles the ManuallyAssignJob command
type ManuallyAssignJobHandler struct {
	assigner *services.ManualAssigner
}

// NewManuallyAssignJobHandler creates a new handler
func NewManuallyAssignJobHandler(assigner *services.ManualAssigner) *ManuallyAssignJobHandler {
	return &ManuallyAssignJobHandler{assigner: assigner}
}

// Handle executes the command. The response is a *services.AssignmentResult.
func (h *ManuallyAssignJobHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ManuallyAssignJobCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ManuallyAssignJobCommand")
	}

	if cmd.AssignedBy == "" {
		return nil, fmt.Errorf("assigned_by is required for manual assignment")
	}

	return h.assigner.Assign(ctx, cmd.JobID, cmd.ManufacturerID, cmd.Reason, cmd.AssignedBy)
}
