package routing

import "strings"

// Stage identifies where in the routing flow a reason step was produced.
type Stage string

const (
	// StageResolution - the variant override cascade
	StageResolution Stage = "resolution"

	// StageAvailability - the full availability check on a resolved candidate
	StageAvailability Stage = "availability"

	// StageFallback - the fallback search over the family's priority list
	StageFallback Stage = "fallback"

	// StageManual - an operator override
	StageManual Stage = "manual"
)

// ReasonStep is one structured entry in a decision's audit trail.
type ReasonStep struct {
	Stage   Stage
	Outcome string
	Detail  string
}

// ReasonTrail is the ordered audit trail for one routing decision. It is
// kept structured internally and rendered to the operator-facing text form
// only at the persistence/display boundary.
type ReasonTrail []ReasonStep

// NewTrail starts a trail with a single step.
func NewTrail(stage Stage, outcome, detail string) ReasonTrail {
	return ReasonTrail{{Stage: stage, Outcome: outcome, Detail: detail}}
}

// With returns a new trail with the step appended.
func (t ReasonTrail) With(stage Stage, outcome, detail string) ReasonTrail {
	out := make(ReasonTrail, len(t), len(t)+1)
	copy(out, t)
	return append(out, ReasonStep{Stage: stage, Outcome: outcome, Detail: detail})
}

// Render produces the operator-facing reason string: the step details
// joined in order.
func (t ReasonTrail) Render() string {
	parts := make([]string, 0, len(t))
	for _, step := range t {
		if step.Detail != "" {
			parts = append(parts, step.Detail)
		}
	}
	return strings.Join(parts, "; ")
}
