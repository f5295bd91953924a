package commands

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/application/common"
	"github.com/rbeltran/stitchops/internal/application/routing/services"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// CreateManufacturingJobsCommand persists a routing result as manufacturer
// jobs, one per manufacturer group. When Result is nil the handler runs a
// fresh routing pass first.
type CreateManufacturingJobsCommand struct {
	OrderID uint
	Result  *routing.OrderRoutingResult
}

// CreateManufacturingJobsHandler handles the CreateManufacturingJobs command
type CreateManufacturingJobsHandler struct {
	router       *services.OrderRouter
	materializer *services.JobMaterializer
}

// NewCreateManufacturingJobsHandler creates a new handler
func NewCreateManufacturingJobsHandler(router *services.OrderRouter, materializer *services.JobMaterializer) *CreateManufacturingJobsHandler {
	return &CreateManufacturingJobsHandler{
		router:       router,
		materializer: materializer,
	}
}

// Handle executes the command. The response is a
// *services.MaterializationResult.
func (h *CreateManufacturingJobsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateManufacturingJobsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateManufacturingJobsCommand")
	}

	result := cmd.Result
	if result == nil {
		var err error
		result, err = h.router.Route(ctx, cmd.OrderID)
		if err != nil {
			return nil, err
		}
	}

	return h.materializer.Materialize(ctx, cmd.OrderID, result)
}
