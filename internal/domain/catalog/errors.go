package catalog

import "fmt"

// ErrOrderNotFound indicates an order could not be found
type ErrOrderNotFound struct {
	OrderID uint
}

func (e *ErrOrderNotFound) Error() string {
	return fmt.Sprintf("order not found: %d", e.OrderID)
}

// ErrVariantNotFound indicates a product variant could not be found
type ErrVariantNotFound struct {
	VariantID uint
}

func (e *ErrVariantNotFound) Error() string {
	return fmt.Sprintf("product variant not found: %d", e.VariantID)
}
