package routing

import "fmt"

// ErrJobNotFound indicates a manufacturer job could not be found
type ErrJobNotFound struct {
	JobID string
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("manufacturer job not found: %s", e.JobID)
}

// ErrManufacturingNotFound indicates an order's manufacturing record could
// not be found
type ErrManufacturingNotFound struct {
	ManufacturingID string
}

func (e *ErrManufacturingNotFound) Error() string {
	return fmt.Sprintf("manufacturing record not found: %s", e.ManufacturingID)
}
