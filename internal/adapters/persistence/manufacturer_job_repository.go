package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// GormManufacturerJobRepository implements routing.JobRepository using GORM
type GormManufacturerJobRepository struct {
	db *gorm.DB
}

// NewGormManufacturerJobRepository creates a new GORM manufacturer job
// repository
func NewGormManufacturerJobRepository(db *gorm.DB) *GormManufacturerJobRepository {
	return &GormManufacturerJobRepository{db: db}
}

// UpsertRouting creates or refreshes the job for a decision's manufacturer
// group. Resolved groups ride the (manufacturing_id, manufacturer_id)
// unique index with a conflict-do-update clause. The pending group (NULL
// manufacturer) cannot conflict on that index, so it is reconciled inside
// a transaction instead.
func (r *GormManufacturerJobRepository) UpsertRouting(ctx context.Context, manufacturingID string, d routing.Decision, priority int) (*routing.ManufacturerJob, error) {
	now := time.Now().UTC()

	if d.ManufacturerID == nil {
		return r.upsertPending(ctx, manufacturingID, d, priority, now)
	}

	job := routing.NewManufacturerJob(manufacturingID, d, priority, now)
	model := r.jobToModel(job)

	// The assignment map must stay field-for-field in sync with
	// ManufacturerJob.ApplyRouting; the conflict target fixes
	// manufacturer_id, and the original-manufacturer marker is never
	// part of the update. The CASE revives a superseded row whose group
	// is back in the plan without clobbering any live status.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "manufacturing_id"}, {Name: "manufacturer_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"routed_by":      string(d.RoutedBy),
				"routing_reason": d.Reason(),
				"priority":       priority,
				"simplified_status": gorm.Expr(
					"CASE WHEN manufacturer_jobs.simplified_status = ? THEN ? ELSE manufacturer_jobs.simplified_status END",
					string(routing.SimplifiedStatusSuperseded), string(routing.SimplifiedStatusNew)),
				"updated_at": now,
			}),
		}).
		Create(model)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to upsert manufacturer job: %w", result.Error)
	}

	var persisted ManufacturerJobModel
	err := r.db.WithContext(ctx).
		Where("manufacturing_id = ? AND manufacturer_id = ?", manufacturingID, *d.ManufacturerID).
		First(&persisted).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load upserted manufacturer job: %w", err)
	}

	return r.modelToJob(&persisted), nil
}

func (r *GormManufacturerJobRepository) upsertPending(ctx context.Context, manufacturingID string, d routing.Decision, priority int, now time.Time) (*routing.ManufacturerJob, error) {
	var persisted ManufacturerJobModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ManufacturerJobModel
		err := tx.Where("manufacturing_id = ? AND manufacturer_id IS NULL", manufacturingID).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			job := routing.NewManufacturerJob(manufacturingID, d, priority, now)
			model := r.jobToModel(job)
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("failed to create pending job: %w", err)
			}
			persisted = *model
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load pending job: %w", err)
		}

		job := r.modelToJob(&existing)
		job.ApplyRouting(d, priority, now)
		if err := tx.Save(r.jobToModel(job)).Error; err != nil {
			return fmt.Errorf("failed to update pending job: %w", err)
		}
		return tx.Where("id = ?", existing.ID).First(&persisted).Error
	})
	if err != nil {
		return nil, err
	}

	return r.modelToJob(&persisted), nil
}

// FindByID retrieves a job by id
func (r *GormManufacturerJobRepository) FindByID(ctx context.Context, id string) (*routing.ManufacturerJob, error) {
	var model ManufacturerJobModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find manufacturer job: %w", result.Error)
	}

	return r.modelToJob(&model), nil
}

// FindByManufacturing retrieves all jobs tied to a manufacturing record
func (r *GormManufacturerJobRepository) FindByManufacturing(ctx context.Context, manufacturingID string) ([]*routing.ManufacturerJob, error) {
	var models []ManufacturerJobModel
	result := r.db.WithContext(ctx).
		Where("manufacturing_id = ?", manufacturingID).
		Order("created_at ASC").
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find jobs for manufacturing record: %w", result.Error)
	}

	jobs := make([]*routing.ManufacturerJob, len(models))
	for i, model := range models {
		jobs[i] = r.modelToJob(&model)
	}

	return jobs, nil
}

// Save persists changes to an existing job
func (r *GormManufacturerJobRepository) Save(ctx context.Context, job *routing.ManufacturerJob) error {
	model := r.jobToModel(job)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save manufacturer job: %w", result.Error)
	}

	return nil
}

// CountActiveByManufacturer counts the manufacturer's jobs that still
// consume capacity: anything not shipped and not superseded
func (r *GormManufacturerJobRepository) CountActiveByManufacturer(ctx context.Context, manufacturerID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&ManufacturerJobModel{}).
		Where("manufacturer_id = ? AND simplified_status NOT IN ?", manufacturerID,
			[]string{string(routing.SimplifiedStatusShipped), string(routing.SimplifiedStatusSuperseded)}).
		Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to count active jobs: %w", result.Error)
	}

	return count, nil
}

// pendingJobRow is the scan target for the pending queue join
type pendingJobRow struct {
	JobID         string
	OrderID       uint
	OrderCode     string
	Priority      int
	RoutingReason string
	CreatedAt     time.Time
}

// FindPending returns the pending-assignment queue, oldest first, each row
// enriched with the order code and live line-item figures.
func (r *GormManufacturerJobRepository) FindPending(ctx context.Context) ([]*routing.PendingJob, error) {
	var rows []pendingJobRow
	err := r.db.WithContext(ctx).
		Table("manufacturer_jobs").
		Select("manufacturer_jobs.id AS job_id, manufacturing.order_id AS order_id, orders.code AS order_code, manufacturer_jobs.priority, manufacturer_jobs.routing_reason, manufacturer_jobs.created_at").
		Joins("JOIN manufacturing ON manufacturing.id = manufacturer_jobs.manufacturing_id").
		Joins("JOIN orders ON orders.id = manufacturing.order_id").
		Where("manufacturer_jobs.routed_by = ? AND manufacturer_jobs.manufacturer_id IS NULL AND manufacturer_jobs.simplified_status <> ?",
			string(routing.RoutedByPending), string(routing.SimplifiedStatusSuperseded)).
		Order("manufacturer_jobs.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query pending jobs: %w", err)
	}

	pending := make([]*routing.PendingJob, len(rows))
	for i, row := range rows {
		count, total, err := r.lineItemFigures(ctx, row.OrderID)
		if err != nil {
			return nil, err
		}

		pending[i] = &routing.PendingJob{
			JobID:         row.JobID,
			OrderID:       row.OrderID,
			OrderCode:     row.OrderCode,
			LineItemCount: count,
			OrderTotal:    total,
			Priority:      row.Priority,
			RoutingReason: row.RoutingReason,
			CreatedAt:     row.CreatedAt,
		}
	}

	return pending, nil
}

// lineItemFigures computes the live line-item count and total value for an
// order. Totals are summed in Go to keep decimal arithmetic exact across
// sqlite and postgres.
func (r *GormManufacturerJobRepository) lineItemFigures(ctx context.Context, orderID uint) (int64, decimal.Decimal, error) {
	var items []OrderLineItemModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to load line items for order %d: %w", orderID, err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return int64(len(items)), total, nil
}

// historyRow is the scan target for the history join
type historyRow struct {
	JobID            string
	OrderID          uint
	OrderCode        string
	ManufacturerID   *uint
	ManufacturerName *string
	RoutedBy         string
	RoutingReason    string
	SimplifiedStatus string
	Priority         int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FindHistory returns the routing audit trail, newest first
func (r *GormManufacturerJobRepository) FindHistory(ctx context.Context, limit, offset int) ([]*routing.HistoryEntry, error) {
	var rows []historyRow
	err := r.db.WithContext(ctx).
		Table("manufacturer_jobs").
		Select("manufacturer_jobs.id AS job_id, manufacturing.order_id AS order_id, orders.code AS order_code, manufacturer_jobs.manufacturer_id, manufacturers.name AS manufacturer_name, manufacturer_jobs.routed_by, manufacturer_jobs.routing_reason, manufacturer_jobs.simplified_status, manufacturer_jobs.priority, manufacturer_jobs.created_at, manufacturer_jobs.updated_at").
		Joins("JOIN manufacturing ON manufacturing.id = manufacturer_jobs.manufacturing_id").
		Joins("JOIN orders ON orders.id = manufacturing.order_id").
		Joins("LEFT JOIN manufacturers ON manufacturers.id = manufacturer_jobs.manufacturer_id").
		Order("manufacturer_jobs.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query routing history: %w", err)
	}

	entries := make([]*routing.HistoryEntry, len(rows))
	for i, row := range rows {
		entry := &routing.HistoryEntry{
			JobID:            row.JobID,
			OrderID:          row.OrderID,
			OrderCode:        row.OrderCode,
			ManufacturerID:   row.ManufacturerID,
			RoutedBy:         routing.RoutedBy(row.RoutedBy),
			RoutingReason:    row.RoutingReason,
			SimplifiedStatus: routing.SimplifiedStatus(row.SimplifiedStatus),
			Priority:         row.Priority,
			CreatedAt:        row.CreatedAt,
			UpdatedAt:        row.UpdatedAt,
		}
		if row.ManufacturerName != nil {
			entry.ManufacturerName = *row.ManufacturerName
		}
		entries[i] = entry
	}

	return entries, nil
}

// Stats aggregates job counts by routed_by plus the number of orders whose
// jobs span more than one manufacturer
func (r *GormManufacturerJobRepository) Stats(ctx context.Context) (*routing.Stats, error) {
	type routedByCount struct {
		RoutedBy string
		Count    int64
	}

	var counts []routedByCount
	err := r.db.WithContext(ctx).
		Model(&ManufacturerJobModel{}).
		Select("routed_by, COUNT(*) AS count").
		Where("simplified_status <> ?", string(routing.SimplifiedStatusSuperseded)).
		Group("routed_by").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate jobs by routed_by: %w", err)
	}

	stats := &routing.Stats{
		ByRoutedBy: make(map[routing.RoutedBy]int64),
	}
	for _, c := range counts {
		stats.ByRoutedBy[routing.RoutedBy(c.RoutedBy)] = c.Count
		stats.TotalJobs += c.Count
	}

	var splitOrders int64
	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT manufacturing.order_id
			FROM manufacturer_jobs
			JOIN manufacturing ON manufacturing.id = manufacturer_jobs.manufacturing_id
			WHERE manufacturer_jobs.manufacturer_id IS NOT NULL
			  AND manufacturer_jobs.simplified_status <> ?
			GROUP BY manufacturing.order_id
			HAVING COUNT(DISTINCT manufacturer_jobs.manufacturer_id) > 1
		) split_orders`, string(routing.SimplifiedStatusSuperseded)).Scan(&splitOrders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count split orders: %w", err)
	}
	stats.SplitOrders = splitOrders

	return stats, nil
}

// jobToModel converts domain entity to database model
func (r *GormManufacturerJobRepository) jobToModel(j *routing.ManufacturerJob) *ManufacturerJobModel {
	var assignedBy *string
	if j.AssignedBy != "" {
		s := j.AssignedBy
		assignedBy = &s
	}

	return &ManufacturerJobModel{
		ID:                     j.ID,
		ManufacturingID:        j.ManufacturingID,
		ManufacturerID:         j.ManufacturerID,
		RoutedBy:               string(j.RoutedBy),
		RoutingReason:          j.RoutingReason,
		OriginalManufacturerID: j.OriginalManufacturerID,
		ManufacturerStatus:     j.ManufacturerStatus,
		SimplifiedStatus:       string(j.SimplifiedStatus),
		Priority:               j.Priority,
		AssignedBy:             assignedBy,
		CreatedAt:              j.CreatedAt,
		UpdatedAt:              j.UpdatedAt,
	}
}

// modelToJob converts database model to domain entity
func (r *GormManufacturerJobRepository) modelToJob(m *ManufacturerJobModel) *routing.ManufacturerJob {
	var assignedBy string
	if m.AssignedBy != nil {
		assignedBy = *m.AssignedBy
	}

	return &routing.ManufacturerJob{
		ID:                     m.ID,
		ManufacturingID:        m.ManufacturingID,
		ManufacturerID:         m.ManufacturerID,
		RoutedBy:               routing.RoutedBy(m.RoutedBy),
		RoutingReason:          m.RoutingReason,
		OriginalManufacturerID: m.OriginalManufacturerID,
		ManufacturerStatus:     m.ManufacturerStatus,
		SimplifiedStatus:       routing.SimplifiedStatus(m.SimplifiedStatus),
		Priority:               m.Priority,
		AssignedBy:             assignedBy,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}
