package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rbeltran/stitchops/internal/domain/catalog"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// MaterializedJob identifies one persisted job and its manufacturer group.
type MaterializedJob struct {
	JobID          string
	ManufacturerID *uint
}

// MaterializationResult collects the jobs written by one materialization
// pass plus any per-group errors. Group failures are isolated: one bad
// group never rolls back the others.
type MaterializationResult struct {
	Jobs   []MaterializedJob
	Errors []string
}

// JobMaterializer turns a routing result into persisted manufacturer jobs,
// one per manufacturer group (the pending group included), upserting
// rather than duplicating on repeat passes.
type JobMaterializer struct {
	orders        catalog.OrderRepository
	manufacturing routing.ManufacturingRepository
	jobs          routing.JobRepository
}

// NewJobMaterializer creates a new job materializer
func NewJobMaterializer(
	orders catalog.OrderRepository,
	manufacturing routing.ManufacturingRepository,
	jobs routing.JobRepository,
) *JobMaterializer {
	return &JobMaterializer{
		orders:        orders,
		manufacturing: manufacturing,
		jobs:          jobs,
	}
}

// Materialize persists the routing result for an order. A missing order
// fails the whole call with a single error; everything after that degrades
// per group.
func (m *JobMaterializer) Materialize(ctx context.Context, orderID uint, result *routing.OrderRoutingResult) (*MaterializationResult, error) {
	out := &MaterializationResult{}

	order, err := m.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	if order == nil {
		out.Errors = append(out.Errors, (&catalog.ErrOrderNotFound{OrderID: orderID}).Error())
		return out, nil
	}

	// The record is shared by all groups; fetch-or-create once up front.
	mfg, err := m.manufacturing.FindOrCreateForOrder(ctx, orderID)
	if err != nil {
		out.Errors = append(out.Errors, fmt.Sprintf("failed to create manufacturing record for order %d: %v", orderID, err))
		return out, nil
	}

	for _, group := range result.Groups {
		decision, ok := result.DecisionFor(group.ManufacturerID)
		if !ok {
			out.Errors = append(out.Errors, fmt.Sprintf(
				"no routing decision for manufacturer group %s", describeManufacturerID(group.ManufacturerID)))
			continue
		}

		job, err := m.jobs.UpsertRouting(ctx, mfg.ID, decision, order.Priority)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf(
				"failed to materialize job for manufacturer group %s: %v", describeManufacturerID(group.ManufacturerID), err))
			continue
		}

		out.Jobs = append(out.Jobs, MaterializedJob{
			JobID:          job.ID,
			ManufacturerID: job.ManufacturerID,
		})
	}

	m.supersedeVanishedGroups(ctx, mfg.ID, result, out)

	return out, nil
}

// supersedeVanishedGroups retires the order's jobs whose manufacturer
// group is absent from the current plan, so a re-route never strands a
// stale pending row in the queue or a stale assignment against a
// manufacturer's capacity. Rows are updated in place, never deleted.
func (m *JobMaterializer) supersedeVanishedGroups(ctx context.Context, manufacturingID string, result *routing.OrderRoutingResult, out *MaterializationResult) {
	existing, err := m.jobs.FindByManufacturing(ctx, manufacturingID)
	if err != nil {
		out.Errors = append(out.Errors, fmt.Sprintf(
			"failed to load jobs for reconciliation: %v", err))
		return
	}

	for _, job := range existing {
		if job.IsSuperseded() || result.GroupFor(job.ManufacturerID) != nil {
			continue
		}

		job.Supersede(time.Now().UTC())
		if err := m.jobs.Save(ctx, job); err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf(
				"failed to supersede job for manufacturer group %s: %v", describeManufacturerID(job.ManufacturerID), err))
		}
	}
}

func describeManufacturerID(id *uint) string {
	if id == nil {
		return "pending"
	}
	return fmt.Sprintf("%d", *id)
}
