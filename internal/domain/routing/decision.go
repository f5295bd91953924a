package routing

// RoutedBy classifies how a routing decision (or a persisted job) got its
// manufacturer.
type RoutedBy string

const (
	// RoutedByAuto - the resolved candidate passed the availability check
	RoutedByAuto RoutedBy = "auto"

	// RoutedByFallback - a non-primary manufacturer was selected because the
	// resolved candidate was unavailable
	RoutedByFallback RoutedBy = "fallback"

	// RoutedByManual - an operator forced the assignment
	RoutedByManual RoutedBy = "manual"

	// RoutedByPending - no manufacturer could be determined
	RoutedByPending RoutedBy = "pending"
)

// Decision is the per-line-item outcome of a routing pass.
type Decision struct {
	LineItemID      uint
	VariantID       uint
	ProductID       *uint
	ProductFamilyID *uint
	ManufacturerID  *uint
	RoutedBy        RoutedBy
	Trail           ReasonTrail
}

// Reason renders the decision's audit trail to the operator-facing form.
func (d Decision) Reason() string {
	return d.Trail.Render()
}

// Resolution is the outcome of the variant override cascade. The cascade
// performs no availability check; validating the candidate is the caller's
// job.
type Resolution struct {
	ManufacturerID  *uint
	ProductID       *uint
	ProductFamilyID *uint
	Trail           ReasonTrail
}

// ManufacturerGroup collects the line items that resolved to one
// manufacturer. A nil ManufacturerID groups all pending items together.
type ManufacturerGroup struct {
	ManufacturerID *uint
	LineItemIDs    []uint
}

// OrderRoutingResult is the plan produced by one routing pass over an order.
// It carries no persistence side effects.
type OrderRoutingResult struct {
	OrderID           uint
	Decisions         []Decision
	Groups            []ManufacturerGroup
	PendingAssignment []uint
	SplitOrder        bool
}

// NewOrderRoutingResult creates an empty plan for an order.
func NewOrderRoutingResult(orderID uint) *OrderRoutingResult {
	return &OrderRoutingResult{OrderID: orderID}
}

// Append records a decision, files its line item into the matching
// manufacturer group, and keeps the pending set and split flag current.
func (r *OrderRoutingResult) Append(d Decision) {
	r.Decisions = append(r.Decisions, d)

	if g := r.GroupFor(d.ManufacturerID); g != nil {
		g.LineItemIDs = append(g.LineItemIDs, d.LineItemID)
	} else {
		r.Groups = append(r.Groups, ManufacturerGroup{
			ManufacturerID: copyID(d.ManufacturerID),
			LineItemIDs:    []uint{d.LineItemID},
		})
	}

	if d.RoutedBy == RoutedByPending {
		r.PendingAssignment = append(r.PendingAssignment, d.LineItemID)
	}

	resolved := 0
	for _, g := range r.Groups {
		if g.ManufacturerID != nil {
			resolved++
		}
	}
	r.SplitOrder = resolved > 1
}

// GroupFor returns the group for a manufacturer id (nil = pending group),
// or nil if no line item has resolved there yet.
func (r *OrderRoutingResult) GroupFor(manufacturerID *uint) *ManufacturerGroup {
	for i := range r.Groups {
		if sameManufacturer(r.Groups[i].ManufacturerID, manufacturerID) {
			return &r.Groups[i]
		}
	}
	return nil
}

// DecisionFor returns the first decision that resolved to the given
// manufacturer. It serves as the representative decision for the whole
// group during materialization.
func (r *OrderRoutingResult) DecisionFor(manufacturerID *uint) (Decision, bool) {
	for _, d := range r.Decisions {
		if sameManufacturer(d.ManufacturerID, manufacturerID) {
			return d, true
		}
	}
	return Decision{}, false
}

func sameManufacturer(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
