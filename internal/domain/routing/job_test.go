package routing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeltran/stitchops/internal/domain/routing"
)

func uintPtr(v uint) *uint { return &v }

func TestNewManufacturerJob_FromDecision(t *testing.T) {
	now := time.Now().UTC()
	d := routing.Decision{
		LineItemID:     1,
		VariantID:      10,
		ManufacturerID: uintPtr(3),
		RoutedBy:       routing.RoutedByAuto,
		Trail:          routing.NewTrail(routing.StageResolution, "primary", "Primary manufacturer for product family Knits"),
	}

	job := routing.NewManufacturerJob("mfg-1", d, 5, now)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "mfg-1", job.ManufacturingID)
	require.NotNil(t, job.ManufacturerID)
	assert.Equal(t, uint(3), *job.ManufacturerID)
	assert.Equal(t, routing.RoutedByAuto, job.RoutedBy)
	assert.Equal(t, "Primary manufacturer for product family Knits", job.RoutingReason)
	assert.Equal(t, routing.ManufacturerStatusIntakePending, job.ManufacturerStatus)
	assert.Equal(t, routing.SimplifiedStatusNew, job.SimplifiedStatus)
	assert.Equal(t, 5, job.Priority)
	assert.Nil(t, job.OriginalManufacturerID)
}

func TestAssignManually_FirstChangePreservesOriginal(t *testing.T) {
	now := time.Now().UTC()
	d := routing.Decision{ManufacturerID: uintPtr(1), RoutedBy: routing.RoutedByAuto}
	job := routing.NewManufacturerJob("mfg-1", d, 0, now)

	// First manual change: 1 -> 2 records 1 as the original
	job.AssignManually(2, "capacity issue", "ops@acme", now)

	require.NotNil(t, job.OriginalManufacturerID)
	assert.Equal(t, uint(1), *job.OriginalManufacturerID)
	assert.Equal(t, uint(2), *job.ManufacturerID)
	assert.Equal(t, routing.RoutedByManual, job.RoutedBy)
	assert.Equal(t, "Manually assigned by ops@acme: capacity issue", job.RoutingReason)
	assert.Equal(t, "ops@acme", job.AssignedBy)

	// Second manual change: 2 -> 3 keeps the first original
	job.AssignManually(3, "second change", "ops@acme", now)

	require.NotNil(t, job.OriginalManufacturerID)
	assert.Equal(t, uint(1), *job.OriginalManufacturerID)
	assert.Equal(t, uint(3), *job.ManufacturerID)
}

func TestAssignManually_SameManufacturerDoesNotRecordOriginal(t *testing.T) {
	now := time.Now().UTC()
	d := routing.Decision{ManufacturerID: uintPtr(1), RoutedBy: routing.RoutedByAuto}
	job := routing.NewManufacturerJob("mfg-1", d, 0, now)

	job.AssignManually(1, "confirming current", "ops@acme", now)

	assert.Nil(t, job.OriginalManufacturerID)
	assert.Equal(t, routing.RoutedByManual, job.RoutedBy)
}

func TestAssignManually_PendingJobGetsManufacturer(t *testing.T) {
	now := time.Now().UTC()
	d := routing.Decision{RoutedBy: routing.RoutedByPending}
	job := routing.NewManufacturerJob("mfg-1", d, 0, now)
	require.True(t, job.IsPending())

	job.AssignManually(4, "manual pick", "ops@acme", now)

	// Pending -> assigned is not a change of manufacturer, so no original
	assert.Nil(t, job.OriginalManufacturerID)
	require.NotNil(t, job.ManufacturerID)
	assert.Equal(t, uint(4), *job.ManufacturerID)
	assert.False(t, job.IsPending())
}

func TestSupersede_RetiresJobFromQueueAndCapacity(t *testing.T) {
	now := time.Now().UTC()
	d := routing.Decision{RoutedBy: routing.RoutedByPending}
	job := routing.NewManufacturerJob("mfg-1", d, 0, now)
	require.True(t, job.IsPending())

	job.Supersede(now)

	assert.True(t, job.IsSuperseded())
	assert.Equal(t, routing.SimplifiedStatusSuperseded, job.SimplifiedStatus)
	// A superseded row never shows in the pending queue
	assert.False(t, job.IsPending())
}

func TestApplyRouting_RevivesSupersededJob(t *testing.T) {
	now := time.Now().UTC()
	d := routing.Decision{ManufacturerID: uintPtr(1), RoutedBy: routing.RoutedByAuto}
	job := routing.NewManufacturerJob("mfg-1", d, 0, now)
	job.Supersede(now)

	// The group is back in a later plan
	job.ApplyRouting(d, 0, now)

	assert.False(t, job.IsSuperseded())
	assert.Equal(t, routing.SimplifiedStatusNew, job.SimplifiedStatus)
}

func TestApplyRouting_KeepsLiveStatus(t *testing.T) {
	now := time.Now().UTC()
	d := routing.Decision{ManufacturerID: uintPtr(1), RoutedBy: routing.RoutedByAuto}
	job := routing.NewManufacturerJob("mfg-1", d, 0, now)
	job.SimplifiedStatus = routing.SimplifiedStatusInProduction

	job.ApplyRouting(d, 0, now)

	assert.Equal(t, routing.SimplifiedStatusInProduction, job.SimplifiedStatus)
}

func TestApplyRouting_NeverTouchesOriginalMarker(t *testing.T) {
	now := time.Now().UTC()
	job := routing.NewManufacturerJob("mfg-1", routing.Decision{ManufacturerID: uintPtr(1), RoutedBy: routing.RoutedByAuto}, 0, now)
	job.AssignManually(2, "operator call", "ops@acme", now)
	require.NotNil(t, job.OriginalManufacturerID)

	job.ApplyRouting(routing.Decision{ManufacturerID: uintPtr(5), RoutedBy: routing.RoutedByAuto}, 1, now)

	require.NotNil(t, job.OriginalManufacturerID)
	assert.Equal(t, uint(1), *job.OriginalManufacturerID)
	assert.Equal(t, uint(5), *job.ManufacturerID)
	assert.Equal(t, routing.RoutedByAuto, job.RoutedBy)
}
