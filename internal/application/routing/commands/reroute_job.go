package commands

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/application/common"
	"github.com/rbeltran/stitchops/internal/application/routing/services"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// RerouteJobCommand re-runs the full router for the job's order and
// re-materializes every manufacturer group, so split orders keep their
// groupings instead of collapsing onto one job.
type RerouteJobCommand struct {
	JobID string
}

// RerouteJobResponse carries the fresh plan and the persisted outcome.
type RerouteJobResponse struct {
	Routing         *routing.OrderRoutingResult
	Materialization *services.MaterializationResult
}

// RerouteJobHandler handles the RerouteJob command
type RerouteJobHandler struct {
	jobs          routing.JobRepository
	manufacturing routing.ManufacturingRepository
	router        *services.OrderRouter
	materializer  *services.JobMaterializer
}

// NewRerouteJobHandler creates a new handler
func NewRerouteJobHandler(
	jobs routing.JobRepository,
	manufacturing routing.ManufacturingRepository,
	router *services.OrderRouter,
	materializer *services.JobMaterializer,
) *RerouteJobHandler {
	return &RerouteJobHandler{
		jobs:          jobs,
		manufacturing: manufacturing,
		router:        router,
		materializer:  materializer,
	}
}

// Handle executes the command. The response is a *RerouteJobResponse.
func (h *RerouteJobHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RerouteJobCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RerouteJobCommand")
	}

	job, err := h.jobs.FindByID(ctx, cmd.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job %s: %w", cmd.JobID, err)
	}
	if job == nil {
		return nil, &routing.ErrJobNotFound{JobID: cmd.JobID}
	}

	mfg, err := h.manufacturing.FindByID(ctx, job.ManufacturingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load manufacturing record %s: %w", job.ManufacturingID, err)
	}
	if mfg == nil {
		return nil, &routing.ErrManufacturingNotFound{ManufacturingID: job.ManufacturingID}
	}

	plan, err := h.router.Route(ctx, mfg.OrderID)
	if err != nil {
		return nil, err
	}

	materialization, err := h.materializer.Materialize(ctx, mfg.OrderID, plan)
	if err != nil {
		return nil, err
	}

	return &RerouteJobResponse{
		Routing:         plan,
		Materialization: materialization,
	}, nil
}
