package routing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Manufacturing lifecycle status values
const (
	// ManufacturingStatusAwaitingConfirmation - initial status on lazy creation
	ManufacturingStatusAwaitingConfirmation = "awaiting_admin_confirmation"
)

// ManufacturerStatus values reported from the manufacturer's side
const (
	// ManufacturerStatusIntakePending - job created, not yet acknowledged
	ManufacturerStatusIntakePending = "intake_pending"
)

// SimplifiedStatus is the coarse job state used for capacity accounting.
type SimplifiedStatus string

const (
	SimplifiedStatusNew          SimplifiedStatus = "new"
	SimplifiedStatusInProduction SimplifiedStatus = "in_production"
	SimplifiedStatusShipped      SimplifiedStatus = "shipped"

	// SimplifiedStatusSuperseded - the job's manufacturer group dropped out
	// of a later routing pass. The row is kept for the audit trail but no
	// longer counts as pending work or manufacturer capacity.
	SimplifiedStatusSuperseded SimplifiedStatus = "superseded"
)

// Manufacturing is the one-per-order record representing the overall
// manufacturing lifecycle. It is created lazily on first materialization.
type Manufacturing struct {
	ID        string
	OrderID   uint
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewManufacturing creates the order-level record in its initial state.
func NewManufacturing(orderID uint, now time.Time) *Manufacturing {
	return &Manufacturing{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		Status:    ManufacturingStatusAwaitingConfirmation,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ManufacturerJob is one persisted job per (manufacturing record,
// resolved-manufacturer group). A nil ManufacturerID is the pending group
// and implies RoutedBy == pending.
type ManufacturerJob struct {
	ID              string
	ManufacturingID string
	ManufacturerID  *uint

	RoutedBy      RoutedBy
	RoutingReason string

	// OriginalManufacturerID preserves the assignment that the FIRST manual
	// re-route replaced. Automatic routing never touches it.
	OriginalManufacturerID *uint

	ManufacturerStatus string
	SimplifiedStatus   SimplifiedStatus
	Priority           int
	AssignedBy         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewManufacturerJob creates a job for a manufacturer group from its
// representative routing decision.
func NewManufacturerJob(manufacturingID string, d Decision, priority int, now time.Time) *ManufacturerJob {
	return &ManufacturerJob{
		ID:                 uuid.New().String(),
		ManufacturingID:    manufacturingID,
		ManufacturerID:     copyID(d.ManufacturerID),
		RoutedBy:           d.RoutedBy,
		RoutingReason:      d.Reason(),
		ManufacturerStatus: ManufacturerStatusIntakePending,
		SimplifiedStatus:   SimplifiedStatusNew,
		Priority:           priority,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// ApplyRouting refreshes an existing job from a new routing decision for
// its group. The original-manufacturer marker is left untouched: only
// manual re-routes record provenance. A superseded job whose group is
// back in the plan is revived; any other status survives the refresh.
func (j *ManufacturerJob) ApplyRouting(d Decision, priority int, now time.Time) {
	j.ManufacturerID = copyID(d.ManufacturerID)
	j.RoutedBy = d.RoutedBy
	j.RoutingReason = d.Reason()
	j.Priority = priority
	if j.SimplifiedStatus == SimplifiedStatusSuperseded {
		j.SimplifiedStatus = SimplifiedStatusNew
	}
	j.UpdatedAt = now
}

// AssignManually forces the job to a manufacturer on operator authority.
// The first manual re-route that changes an existing assignment captures
// the prior manufacturer; later re-routes keep that first original.
func (j *ManufacturerJob) AssignManually(manufacturerID uint, reason, assignedBy string, now time.Time) {
	if j.OriginalManufacturerID == nil && j.ManufacturerID != nil && *j.ManufacturerID != manufacturerID {
		prior := *j.ManufacturerID
		j.OriginalManufacturerID = &prior
	}

	j.ManufacturerID = &manufacturerID
	j.RoutedBy = RoutedByManual
	j.RoutingReason = NewTrail(StageManual, "override",
		fmt.Sprintf("Manually assigned by %s: %s", assignedBy, reason)).Render()
	j.SimplifiedStatus = SimplifiedStatusNew
	j.AssignedBy = assignedBy
	j.UpdatedAt = now
}

// Supersede retires a job whose manufacturer group is absent from the
// latest routing pass for its order. Superseded rows survive for the
// audit trail; they leave the pending queue and the capacity count.
func (j *ManufacturerJob) Supersede(now time.Time) {
	j.SimplifiedStatus = SimplifiedStatusSuperseded
	j.UpdatedAt = now
}

// IsSuperseded reports whether a later routing pass retired the job.
func (j *ManufacturerJob) IsSuperseded() bool {
	return j.SimplifiedStatus == SimplifiedStatusSuperseded
}

// IsPending reports whether the job sits in the pending-assignment queue.
func (j *ManufacturerJob) IsPending() bool {
	return j.RoutedBy == RoutedByPending && j.ManufacturerID == nil && !j.IsSuperseded()
}
