package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// GormManufacturingRepository implements routing.ManufacturingRepository
// using GORM
type GormManufacturingRepository struct {
	db *gorm.DB
}

// NewGormManufacturingRepository creates a new GORM manufacturing repository
func NewGormManufacturingRepository(db *gorm.DB) *GormManufacturingRepository {
	return &GormManufacturingRepository{db: db}
}

// FindOrCreateForOrder fetches the order's manufacturing record, creating
// it lazily. The insert rides the order_id unique index with a
// conflict-do-nothing clause, so concurrent first-routing passes converge
// on a single row.
func (r *GormManufacturingRepository) FindOrCreateForOrder(ctx context.Context, orderID uint) (*routing.Manufacturing, error) {
	record := routing.NewManufacturing(orderID, time.Now().UTC())
	model := r.manufacturingToModel(record)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create manufacturing record: %w", result.Error)
	}

	var persisted ManufacturingModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&persisted).Error; err != nil {
		return nil, fmt.Errorf("failed to load manufacturing record for order %d: %w", orderID, err)
	}

	return r.modelToManufacturing(&persisted), nil
}

// FindByID retrieves a manufacturing record by id
func (r *GormManufacturingRepository) FindByID(ctx context.Context, id string) (*routing.Manufacturing, error) {
	var model ManufacturingModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find manufacturing record: %w", result.Error)
	}

	return r.modelToManufacturing(&model), nil
}

func (r *GormManufacturingRepository) manufacturingToModel(m *routing.Manufacturing) *ManufacturingModel {
	return &ManufacturingModel{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *GormManufacturingRepository) modelToManufacturing(m *ManufacturingModel) *routing.Manufacturing {
	return &routing.Manufacturing{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
