package routing

import "context"

// ManufacturingRepository persists the one-per-order Manufacturing record.
type ManufacturingRepository interface {
	// FindOrCreateForOrder returns the order's manufacturing record,
	// creating it in the awaiting-admin-confirmation state if absent.
	// The fetch-or-create is atomic against the order_id unique key.
	FindOrCreateForOrder(ctx context.Context, orderID uint) (*Manufacturing, error)

	// FindByID returns the record or (nil, nil) if absent.
	FindByID(ctx context.Context, id string) (*Manufacturing, error)
}

// JobRepository persists manufacturer jobs and serves the read-side views.
type JobRepository interface {
	// UpsertRouting creates or updates the job for the decision's
	// manufacturer group, keyed by (manufacturing record, manufacturer).
	// Updates refresh routed_by/routing_reason/priority in place, revive a
	// superseded row, and never clobber the original-manufacturer marker.
	UpsertRouting(ctx context.Context, manufacturingID string, d Decision, priority int) (*ManufacturerJob, error)

	// FindByID returns the job or (nil, nil) if absent.
	FindByID(ctx context.Context, id string) (*ManufacturerJob, error)

	// FindByManufacturing returns all jobs tied to a manufacturing record.
	FindByManufacturing(ctx context.Context, manufacturingID string) ([]*ManufacturerJob, error)

	// Save persists changes to an existing job.
	Save(ctx context.Context, job *ManufacturerJob) error

	// CountActiveByManufacturer counts the manufacturer's jobs that have
	// neither shipped nor been superseded. Used for capacity checks.
	CountActiveByManufacturer(ctx context.Context, manufacturerID uint) (int64, error)

	// FindPending returns the pending-assignment queue, oldest first.
	FindPending(ctx context.Context) ([]*PendingJob, error)

	// FindHistory returns the routing audit trail, newest first.
	FindHistory(ctx context.Context, limit, offset int) ([]*HistoryEntry, error)

	// Stats aggregates job counts by routing category and split orders.
	Stats(ctx context.Context) (*Stats, error)
}
