package persistence

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManufacturerModel represents the manufacturers table
type ManufacturerModel struct {
	ID                 uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name               string `gorm:"column:name;not null"`
	Code               string `gorm:"column:code;unique;not null"`
	IsActive           bool   `gorm:"column:is_active;not null;default:true"`
	AcceptingNewOrders bool   `gorm:"column:accepting_new_orders;not null;default:true"`
	MaxConcurrentJobs  *int   `gorm:"column:max_concurrent_jobs"` // NULL = unbounded
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (ManufacturerModel) TableName() string {
	return "manufacturers"
}

// ProductFamilyModel represents the product_families table
type ProductFamilyModel struct {
	ID                    uint               `gorm:"column:id;primaryKey;autoIncrement"`
	Name                  string             `gorm:"column:name;not null"`
	DefaultManufacturerID *uint              `gorm:"column:default_manufacturer_id"`
	DefaultManufacturer   *ManufacturerModel `gorm:"foreignKey:DefaultManufacturerID;references:ID"`
}

func (ProductFamilyModel) TableName() string {
	return "product_families"
}

// ProductFamilyManufacturerModel represents the product_family_manufacturers
// join table. Priority 1 is the primary; higher numbers are fallbacks.
type ProductFamilyManufacturerModel struct {
	ID              uint               `gorm:"column:id;primaryKey;autoIncrement"`
	ProductFamilyID uint               `gorm:"column:product_family_id;not null;uniqueIndex:idx_family_manufacturer;index:idx_family_priority"`
	ManufacturerID  uint               `gorm:"column:manufacturer_id;not null;uniqueIndex:idx_family_manufacturer"`
	Manufacturer    *ManufacturerModel `gorm:"foreignKey:ManufacturerID;references:ID"`
	Priority        int                `gorm:"column:priority;not null;index:idx_family_priority"`
	IsActive        bool               `gorm:"column:is_active;not null;default:true"`
}

func (ProductFamilyManufacturerModel) TableName() string {
	return "product_family_manufacturers"
}

// CategoryModel represents the categories table
type CategoryModel struct {
	ID              uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string `gorm:"column:name;not null"`
	ProductFamilyID *uint  `gorm:"column:product_family_id"` // inherited by products lacking their own
}

func (CategoryModel) TableName() string {
	return "categories"
}

// ProductModel represents the products table
type ProductModel struct {
	ID                    uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name                  string `gorm:"column:name;not null"`
	CategoryID            uint   `gorm:"column:category_id;not null;index"`
	ProductFamilyID       *uint  `gorm:"column:product_family_id"`
	DefaultManufacturerID *uint  `gorm:"column:default_manufacturer_id"` // absolute routing override
}

func (ProductModel) TableName() string {
	return "products"
}

// ProductVariantModel represents the product_variants table
type ProductVariantModel struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint   `gorm:"column:product_id;not null;index"`
	SKU       string `gorm:"column:sku;unique;not null"`
	Size      string `gorm:"column:size"`
	Color     string `gorm:"column:color"`
}

func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// OrderModel represents the orders table
type OrderModel struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Code      string `gorm:"column:code;unique;not null"`
	Priority  int    `gorm:"column:priority;not null;default:0"`
	CreatedAt time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineItemModel represents the order_line_items table
type OrderLineItemModel struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uint            `gorm:"column:order_id;not null;index"`
	Order     *OrderModel     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	VariantID uint            `gorm:"column:variant_id;not null"`
	Quantity  int             `gorm:"column:quantity;not null;default:1"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(10,2);not null"`
}

func (OrderLineItemModel) TableName() string {
	return "order_line_items"
}

// ManufacturingModel represents the manufacturing table: one row per order
// for the overall manufacturing lifecycle, created lazily on first routing.
type ManufacturingModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	OrderID   uint   `gorm:"column:order_id;not null;uniqueIndex"`
	Status    string `gorm:"column:status;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ManufacturingModel) TableName() string {
	return "manufacturing"
}

// ManufacturerJobModel represents the manufacturer_jobs table: one row per
// (manufacturing record, resolved manufacturer group). NULL manufacturer_id
// is the pending group.
type ManufacturerJobModel struct {
	ID                     string  `gorm:"column:id;primaryKey"`
	ManufacturingID        string  `gorm:"column:manufacturing_id;not null;uniqueIndex:idx_manufacturing_manufacturer"`
	ManufacturerID         *uint   `gorm:"column:manufacturer_id;uniqueIndex:idx_manufacturing_manufacturer"`
	RoutedBy               string  `gorm:"column:routed_by;not null;index"`
	RoutingReason          string  `gorm:"column:routing_reason;type:text"`
	OriginalManufacturerID *uint   `gorm:"column:original_manufacturer_id"` // set by the first manual re-route only
	ManufacturerStatus     string  `gorm:"column:manufacturer_status;not null"`
	SimplifiedStatus       string  `gorm:"column:simplified_status;not null;index"`
	Priority               int     `gorm:"column:priority;not null;default:0"`
	AssignedBy             *string `gorm:"column:assigned_by"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (ManufacturerJobModel) TableName() string {
	return "manufacturer_jobs"
}
