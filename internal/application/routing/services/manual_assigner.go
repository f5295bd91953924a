package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rbeltran/stitchops/internal/application/common"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// AssignmentResult is the explicit outcome shape for manual assignment.
type AssignmentResult struct {
	Success bool
	Error   string
}

// ManualAssigner forces a job to a specific manufacturer on operator
// authority. Availability is checked and logged for the audit trail but
// never blocks the assignment: the operator escape hatch always takes
// effect.
type ManualAssigner struct {
	jobs         routing.JobRepository
	availability *AvailabilityChecker
}

// NewManualAssigner creates a new manual assigner
func NewManualAssigner(jobs routing.JobRepository, availability *AvailabilityChecker) *ManualAssigner {
	return &ManualAssigner{
		jobs:         jobs,
		availability: availability,
	}
}

// Assign overrides the job's manufacturer, recording provenance. The first
// manual change preserves the prior assignment as the original.
func (a *ManualAssigner) Assign(ctx context.Context, jobID string, manufacturerID uint, reason, assignedBy string) (*AssignmentResult, error) {
	job, err := a.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job %s: %w", jobID, err)
	}
	if job == nil {
		return &AssignmentResult{Success: false, Error: (&routing.ErrJobNotFound{JobID: jobID}).Error()}, nil
	}

	avail, err := a.availability.Check(ctx, manufacturerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability for manufacturer %d: %w", manufacturerID, err)
	}
	if !avail.Available {
		common.LoggerFromContext(ctx).Log("WARN", "manual assignment overriding availability", map[string]interface{}{
			"job_id":          jobID,
			"manufacturer_id": manufacturerID,
			"reason":          avail.Reason,
		})
	}

	job.AssignManually(manufacturerID, reason, assignedBy, time.Now().UTC())

	if err := a.jobs.Save(ctx, job); err != nil {
		return &AssignmentResult{Success: false, Error: fmt.Sprintf("failed to save job: %v", err)}, nil
	}

	return &AssignmentResult{Success: true}, nil
}
