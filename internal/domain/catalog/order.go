package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer order. Its line items are the unit of routing.
type Order struct {
	ID        uint
	Code      string
	Priority  int
	LineItems []OrderLineItem
	CreatedAt time.Time
}

// TotalValue sums quantity * unit price across all line items.
func (o *Order) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.LineItems {
		total = total.Add(item.LineTotal())
	}
	return total
}

// OrderLineItem references exactly one product variant.
type OrderLineItem struct {
	ID        uint
	OrderID   uint
	VariantID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal is quantity * unit price.
func (i OrderLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
