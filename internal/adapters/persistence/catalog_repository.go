package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rbeltran/stitchops/internal/domain/catalog"
)

// GormCatalogRepository implements catalog.Reader using GORM. All lookups
// translate gorm.ErrRecordNotFound into (nil, nil).
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FindVariant retrieves a product variant by id
func (r *GormCatalogRepository) FindVariant(ctx context.Context, id uint) (*catalog.ProductVariant, error) {
	var model ProductVariantModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find variant: %w", result.Error)
	}

	return &catalog.ProductVariant{
		ID:        model.ID,
		ProductID: model.ProductID,
		SKU:       model.SKU,
		Size:      model.Size,
		Color:     model.Color,
	}, nil
}

// FindProduct retrieves a product by id
func (r *GormCatalogRepository) FindProduct(ctx context.Context, id uint) (*catalog.Product, error) {
	var model ProductModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	return &catalog.Product{
		ID:                    model.ID,
		Name:                  model.Name,
		CategoryID:            model.CategoryID,
		ProductFamilyID:       model.ProductFamilyID,
		DefaultManufacturerID: model.DefaultManufacturerID,
	}, nil
}

// FindCategory retrieves a category by id
func (r *GormCatalogRepository) FindCategory(ctx context.Context, id uint) (*catalog.Category, error) {
	var model CategoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category: %w", result.Error)
	}

	return &catalog.Category{
		ID:              model.ID,
		Name:            model.Name,
		ProductFamilyID: model.ProductFamilyID,
	}, nil
}

// FindFamily retrieves a product family by id
func (r *GormCatalogRepository) FindFamily(ctx context.Context, id uint) (*catalog.ProductFamily, error) {
	var model ProductFamilyModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product family: %w", result.Error)
	}

	return &catalog.ProductFamily{
		ID:                    model.ID,
		Name:                  model.Name,
		DefaultManufacturerID: model.DefaultManufacturerID,
	}, nil
}

// ListFamilyManufacturers retrieves the family's active join entries
// ordered by ascending priority
func (r *GormCatalogRepository) ListFamilyManufacturers(ctx context.Context, familyID uint) ([]*catalog.FamilyManufacturer, error) {
	var models []ProductFamilyManufacturerModel
	result := r.db.WithContext(ctx).
		Where("product_family_id = ? AND is_active = ?", familyID, true).
		Order("priority ASC").
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list family manufacturers: %w", result.Error)
	}

	entries := make([]*catalog.FamilyManufacturer, len(models))
	for i, model := range models {
		entries[i] = &catalog.FamilyManufacturer{
			ID:              model.ID,
			ProductFamilyID: model.ProductFamilyID,
			ManufacturerID:  model.ManufacturerID,
			Priority:        model.Priority,
			IsActive:        model.IsActive,
		}
	}

	return entries, nil
}

// FindManufacturer retrieves a manufacturer by id
func (r *GormCatalogRepository) FindManufacturer(ctx context.Context, id uint) (*catalog.Manufacturer, error) {
	var model ManufacturerModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find manufacturer: %w", result.Error)
	}

	return &catalog.Manufacturer{
		ID:                 model.ID,
		Name:               model.Name,
		Code:               model.Code,
		IsActive:           model.IsActive,
		AcceptingNewOrders: model.AcceptingNewOrders,
		MaxConcurrentJobs:  model.MaxConcurrentJobs,
	}, nil
}
