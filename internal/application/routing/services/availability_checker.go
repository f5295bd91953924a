package services

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/domain/catalog"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// JobCounter reports how many unshipped jobs a manufacturer currently holds.
// Satisfied by the manufacturer job repository.
type JobCounter interface {
	CountActiveByManufacturer(ctx context.Context, manufacturerID uint) (int64, error)
}

// AvailabilityChecker determines whether a manufacturer can accept
// additional work: active flag, accepting-new-orders flag, and the
// concurrent-job ceiling when one is set. Pure read, no side effects.
type AvailabilityChecker struct {
	catalog catalog.Reader
	jobs    JobCounter
}

// NewAvailabilityChecker creates a new availability checker
func NewAvailabilityChecker(catalogReader catalog.Reader, jobs JobCounter) *AvailabilityChecker {
	return &AvailabilityChecker{
		catalog: catalogReader,
		jobs:    jobs,
	}
}

// Check reports availability for a manufacturer. Unknown manufacturers
// fail closed.
func (c *AvailabilityChecker) Check(ctx context.Context, manufacturerID uint) (routing.Availability, error) {
	m, err := c.catalog.FindManufacturer(ctx, manufacturerID)
	if err != nil {
		return routing.Availability{}, fmt.Errorf("failed to look up manufacturer %d: %w", manufacturerID, err)
	}

	if m == nil {
		return routing.Availability{Available: false, Reason: "Manufacturer not found"}, nil
	}

	if !m.IsActive {
		return routing.Availability{
			Available: false,
			Reason:    fmt.Sprintf("Manufacturer %s is not active", m.Name),
		}, nil
	}

	if !m.AcceptingNewOrders {
		return routing.Availability{
			Available: false,
			Reason:    fmt.Sprintf("Manufacturer %s is not accepting new orders", m.Name),
		}, nil
	}

	if m.HasCapacityLimit() {
		count, err := c.jobs.CountActiveByManufacturer(ctx, manufacturerID)
		if err != nil {
			return routing.Availability{}, fmt.Errorf("failed to count active jobs for manufacturer %d: %w", manufacturerID, err)
		}

		if count >= int64(*m.MaxConcurrentJobs) {
			return routing.Availability{
				Available: false,
				Reason:    fmt.Sprintf("Manufacturer %s is at capacity (%d/%d jobs)", m.Name, count, *m.MaxConcurrentJobs),
			}, nil
		}
	}

	return routing.Availability{
		Available: true,
		Reason:    fmt.Sprintf("Manufacturer %s is available", m.Name),
	}, nil
}
