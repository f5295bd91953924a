package queries

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/application/common"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// GetPendingJobsQuery returns the pending-assignment queue: every job with
// no manufacturer, oldest first, enriched with order context for triage.
type GetPendingJobsQuery struct{}

// GetPendingJobsHandler handles the GetPendingJobs query
type GetPendingJobsHandler struct {
	jobs routing.JobRepository
}

// NewGetPendingJobsHandler creates a new handler
func NewGetPendingJobsHandler(jobs routing.JobRepository) *GetPendingJobsHandler {
	return &GetPendingJobsHandler{jobs: jobs}
}

// Handle executes the query. The response is []*routing.PendingJob.
func (h *GetPendingJobsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*GetPendingJobsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPendingJobsQuery")
	}

	return h.jobs.FindPending(ctx)
}
