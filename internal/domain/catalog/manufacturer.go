package catalog

// Manufacturer is a production partner that can be assigned manufacturing jobs.
type Manufacturer struct {
	ID                 uint
	Name               string
	Code               string
	IsActive           bool
	AcceptingNewOrders bool

	// MaxConcurrentJobs caps simultaneous unshipped jobs. Nil means unbounded.
	MaxConcurrentJobs *int
}

// HasCapacityLimit reports whether the manufacturer enforces a job ceiling.
func (m *Manufacturer) HasCapacityLimit() bool {
	return m.MaxConcurrentJobs != nil
}
