package routing

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingJob is the read model for the pending-assignment queue: every job
// with no manufacturer, enriched with live order context for triage.
type PendingJob struct {
	JobID         string
	OrderID       uint
	OrderCode     string
	LineItemCount int64
	OrderTotal    decimal.Decimal
	Priority      int
	RoutingReason string
	CreatedAt     time.Time
}

// HistoryEntry is one row of the routing audit trail.
type HistoryEntry struct {
	JobID            string
	OrderID          uint
	OrderCode        string
	ManufacturerID   *uint
	ManufacturerName string
	RoutedBy         RoutedBy
	RoutingReason    string
	SimplifiedStatus SimplifiedStatus
	Priority         int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Stats aggregates job counts by routing category plus the number of
// orders whose jobs span more than one manufacturer.
type Stats struct {
	TotalJobs   int64
	ByRoutedBy  map[RoutedBy]int64
	SplitOrders int64
}
