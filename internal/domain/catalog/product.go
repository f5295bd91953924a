package catalog

// ProductFamily is the dispatch grouping unit for manufacturer selection.
// A family may carry its own default manufacturer and/or a prioritized
// list of candidate manufacturers (FamilyManufacturer entries).
type ProductFamily struct {
	ID                    uint
	Name                  string
	DefaultManufacturerID *uint
}

// FamilyManufacturer is the join entry between a product family and one of
// its candidate manufacturers. Priority 1 is the primary; higher numbers are
// fallbacks tried in ascending order.
type FamilyManufacturer struct {
	ID              uint
	ProductFamilyID uint
	ManufacturerID  uint
	Priority        int
	IsActive        bool
}

// Category groups products. Its family id is used only when the product
// itself carries none.
type Category struct {
	ID              uint
	Name            string
	ProductFamilyID *uint
}

// Product is a sellable design. A product-level default manufacturer is an
// absolute override over any family-based selection.
type Product struct {
	ID                    uint
	Name                  string
	CategoryID            uint
	ProductFamilyID       *uint
	DefaultManufacturerID *uint
}

// ProductVariant is a single sellable unit of a product (size/color).
type ProductVariant struct {
	ID        uint
	ProductID uint
	SKU       string
	Size      string
	Color     string
}
