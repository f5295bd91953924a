package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rbeltran/stitchops/internal/domain/catalog"
)

// GormOrderRepository implements catalog.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID retrieves an order with its line items loaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uint) (*catalog.Order, error) {
	var model OrderModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order: %w", result.Error)
	}

	var itemModels []OrderLineItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("id ASC").
		Find(&itemModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load line items for order %d: %w", id, err)
	}

	order := &catalog.Order{
		ID:        model.ID,
		Code:      model.Code,
		Priority:  model.Priority,
		CreatedAt: model.CreatedAt,
		LineItems: make([]catalog.OrderLineItem, len(itemModels)),
	}
	for i, item := range itemModels {
		order.LineItems[i] = catalog.OrderLineItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return order, nil
}

// FindUnroutedIDs returns ids of orders without a manufacturing record,
// oldest first
func (r *GormOrderRepository) FindUnroutedIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	subquery := r.db.Model(&ManufacturingModel{}).Select("order_id")
	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("id NOT IN (?)", subquery).
		Order("created_at ASC").
		Pluck("id", &ids)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find unrouted orders: %w", result.Error)
	}

	return ids, nil
}
