package queries

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/application/common"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// GetRoutingStatsQuery aggregates job counts by routing category plus the
// split-order count.
type GetRoutingStatsQuery struct{}

// GetRoutingStatsHandler handles the GetRoutingStats query
type GetRoutingStatsHandler struct {
	jobs routing.JobRepository
}

// NewGetRoutingStatsHandler creates a new handler
func NewGetRoutingStatsHandler(jobs routing.JobRepository) *GetRoutingStatsHandler {
	return &GetRoutingStatsHandler{jobs: jobs}
}

// Handle executes the query. The response is a *routing.Stats.
func (h *GetRoutingStatsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*GetRoutingStatsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRoutingStatsQuery")
	}

	return h.jobs.Stats(ctx)
}
