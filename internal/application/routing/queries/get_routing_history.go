package queries

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/application/common"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

const (
	// DefaultHistoryLimit applies when a query omits the limit
	DefaultHistoryLimit = 50

	// MaxHistoryLimit caps a single history page
	MaxHistoryLimit = 200
)

// GetRoutingHistoryQuery pages through the routing audit trail,
// newest first.
type GetRoutingHistoryQuery struct {
	Limit  int
	Offset int
}

// GetRoutingHistoryHandler handles the GetRoutingHistory query
type GetRoutingHistoryHandler struct {
	jobs         routing.JobRepository
	defaultLimit int
	maxLimit     int
}

// NewGetRoutingHistoryHandler creates a new handler. Non-positive paging
// bounds fall back to the package defaults.
func NewGetRoutingHistoryHandler(jobs routing.JobRepository, defaultLimit, maxLimit int) *GetRoutingHistoryHandler {
	if defaultLimit <= 0 {
		defaultLimit = DefaultHistoryLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxHistoryLimit
	}
	return &GetRoutingHistoryHandler{
		jobs:         jobs,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Handle executes the query. The response is []*routing.HistoryEntry.
func (h *GetRoutingHistoryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetRoutingHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRoutingHistoryQuery")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = h.defaultLimit
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	return h.jobs.FindHistory(ctx, limit, offset)
}
