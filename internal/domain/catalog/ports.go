package catalog

import "context"

// Reader provides read-only access to the catalog. All lookups return
// (nil, nil) when the record does not exist; absence is data for the
// routing engine, not an error.
type Reader interface {
	FindVariant(ctx context.Context, id uint) (*ProductVariant, error)
	FindProduct(ctx context.Context, id uint) (*Product, error)
	FindCategory(ctx context.Context, id uint) (*Category, error)
	FindFamily(ctx context.Context, id uint) (*ProductFamily, error)

	// ListFamilyManufacturers returns the family's active join entries
	// ordered by ascending priority.
	ListFamilyManufacturers(ctx context.Context, familyID uint) ([]*FamilyManufacturer, error)

	FindManufacturer(ctx context.Context, id uint) (*Manufacturer, error)
}

// OrderRepository provides read access to orders and their line items.
type OrderRepository interface {
	// FindByID returns the order with its line items loaded, or (nil, nil)
	// if it does not exist.
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindUnroutedIDs returns ids of orders that have no manufacturing
	// record yet, oldest first.
	FindUnroutedIDs(ctx context.Context) ([]uint, error)
}
