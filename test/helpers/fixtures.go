package helpers

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rbeltran/stitchops/internal/adapters/persistence"
)

// Fixtures seeds catalog and order rows for persistence-level tests
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

// NewFixtures creates a fixture seeder bound to a test database
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

// Manufacturer seeds an active manufacturer accepting new orders
func (f *Fixtures) Manufacturer(name, code string) *persistence.ManufacturerModel {
	m := &persistence.ManufacturerModel{
		Name:               name,
		Code:               code,
		IsActive:           true,
		AcceptingNewOrders: true,
	}
	if err := f.db.Create(m).Error; err != nil {
		f.t.Fatalf("failed to seed manufacturer %s: %v", code, err)
	}
	return m
}

// ManufacturerWithCapacity seeds a manufacturer with a job cap
func (f *Fixtures) ManufacturerWithCapacity(name, code string, maxJobs int) *persistence.ManufacturerModel {
	m := f.Manufacturer(name, code)
	m.MaxConcurrentJobs = &maxJobs
	if err := f.db.Save(m).Error; err != nil {
		f.t.Fatalf("failed to set capacity for %s: %v", code, err)
	}
	return m
}

// Family seeds a product family, optionally with a default manufacturer
func (f *Fixtures) Family(name string, defaultManufacturerID *uint) *persistence.ProductFamilyModel {
	family := &persistence.ProductFamilyModel{
		Name:                  name,
		DefaultManufacturerID: defaultManufacturerID,
	}
	if err := f.db.Create(family).Error; err != nil {
		f.t.Fatalf("failed to seed product family %s: %v", name, err)
	}
	return family
}

// FamilyManufacturer seeds a priority-list entry for a family
func (f *Fixtures) FamilyManufacturer(familyID, manufacturerID uint, priority int) *persistence.ProductFamilyManufacturerModel {
	entry := &persistence.ProductFamilyManufacturerModel{
		ProductFamilyID: familyID,
		ManufacturerID:  manufacturerID,
		Priority:        priority,
		IsActive:        true,
	}
	if err := f.db.Create(entry).Error; err != nil {
		f.t.Fatalf("failed to seed family manufacturer: %v", err)
	}
	return entry
}

// Category seeds a category, optionally tied to a product family
func (f *Fixtures) Category(name string, familyID *uint) *persistence.CategoryModel {
	c := &persistence.CategoryModel{
		Name:            name,
		ProductFamilyID: familyID,
	}
	if err := f.db.Create(c).Error; err != nil {
		f.t.Fatalf("failed to seed category %s: %v", name, err)
	}
	return c
}

// Product seeds a product in a category
func (f *Fixtures) Product(name string, categoryID uint, familyID, defaultManufacturerID *uint) *persistence.ProductModel {
	p := &persistence.ProductModel{
		Name:                  name,
		CategoryID:            categoryID,
		ProductFamilyID:       familyID,
		DefaultManufacturerID: defaultManufacturerID,
	}
	if err := f.db.Create(p).Error; err != nil {
		f.t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return p
}

// Variant seeds a product variant
func (f *Fixtures) Variant(productID uint, sku string) *persistence.ProductVariantModel {
	v := &persistence.ProductVariantModel{
		ProductID: productID,
		SKU:       sku,
	}
	if err := f.db.Create(v).Error; err != nil {
		f.t.Fatalf("failed to seed variant %s: %v", sku, err)
	}
	return v
}

// LineItemSpec describes a line item to seed on an order
type LineItemSpec struct {
	VariantID uint
	Quantity  int
	UnitPrice string
}

// Order seeds an order with line items
func (f *Fixtures) Order(code string, priority int, items ...LineItemSpec) *persistence.OrderModel {
	o := &persistence.OrderModel{
		Code:     code,
		Priority: priority,
	}
	if err := f.db.Create(o).Error; err != nil {
		f.t.Fatalf("failed to seed order %s: %v", code, err)
	}

	for _, spec := range items {
		quantity := spec.Quantity
		if quantity == 0 {
			quantity = 1
		}
		price := decimal.Zero
		if spec.UnitPrice != "" {
			var err error
			price, err = decimal.NewFromString(spec.UnitPrice)
			if err != nil {
				f.t.Fatalf("invalid unit price %q: %v", spec.UnitPrice, err)
			}
		}
		item := &persistence.OrderLineItemModel{
			OrderID:   o.ID,
			VariantID: spec.VariantID,
			Quantity:  quantity,
			UnitPrice: price,
		}
		if err := f.db.Create(item).Error; err != nil {
			f.t.Fatalf("failed to seed line item for order %s: %v", code, err)
		}
	}

	return o
}

// UintPtr returns a pointer to the given uint, for optional foreign keys
func UintPtr(v uint) *uint {
	return &v
}
