package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeltran/stitchops/internal/adapters/persistence"
	"github.com/rbeltran/stitchops/internal/domain/routing"
	"github.com/rbeltran/stitchops/test/helpers"
)

func autoDecision(manufacturerID uint) routing.Decision {
	return routing.Decision{
		ManufacturerID: helpers.UintPtr(manufacturerID),
		RoutedBy:       routing.RoutedByAuto,
		Trail:          routing.NewTrail(routing.StageResolution, "primary", "Primary manufacturer for product family Knits"),
	}
}

func pendingDecision() routing.Decision {
	return routing.Decision{
		RoutedBy: routing.RoutedByPending,
		Trail:    routing.NewTrail(routing.StageResolution, "family_exhausted", "No available manufacturers for product family"),
	}
}

func TestJobRepository_UpsertCreatesThenUpdates(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	order := f.Order("ORD-001", 3)
	mfg, err := mfgRepo.FindOrCreateForOrder(ctx, order.ID)
	require.NoError(t, err)

	created, err := repo.UpsertRouting(ctx, mfg.ID, autoDecision(apex.ID), 3)
	require.NoError(t, err)
	assert.Equal(t, routing.RoutedByAuto, created.RoutedBy)
	assert.Equal(t, 3, created.Priority)

	// Second pass for the same group updates in place
	updated := autoDecision(apex.ID)
	updated.RoutedBy = routing.RoutedByFallback
	updated.Trail = routing.NewTrail(routing.StageFallback, "selected", "Fallback to Apex Textiles (priority 2)")
	second, err := repo.UpsertRouting(ctx, mfg.ID, updated, 5)
	require.NoError(t, err)

	assert.Equal(t, created.ID, second.ID)
	assert.Equal(t, routing.RoutedByFallback, second.RoutedBy)
	assert.Equal(t, "Fallback to Apex Textiles (priority 2)", second.RoutingReason)
	assert.Equal(t, 5, second.Priority)

	var count int64
	require.NoError(t, db.Model(&persistence.ManufacturerJobModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestJobRepository_UpsertPendingGroupDoesNotDuplicate(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	order := f.Order("ORD-001", 0)
	mfg, err := mfgRepo.FindOrCreateForOrder(ctx, order.ID)
	require.NoError(t, err)

	first, err := repo.UpsertRouting(ctx, mfg.ID, pendingDecision(), 0)
	require.NoError(t, err)
	assert.True(t, first.IsPending())

	second, err := repo.UpsertRouting(ctx, mfg.ID, pendingDecision(), 0)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&persistence.ManufacturerJobModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestJobRepository_UpsertPreservesOriginalManufacturerMarker(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	order := f.Order("ORD-001", 0)
	mfg, err := mfgRepo.FindOrCreateForOrder(ctx, order.ID)
	require.NoError(t, err)

	job, err := repo.UpsertRouting(ctx, mfg.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)

	// Simulate a prior manual re-route having recorded provenance
	original := uint(99)
	job.OriginalManufacturerID = &original
	require.NoError(t, repo.Save(ctx, job))

	refreshed, err := repo.UpsertRouting(ctx, mfg.ID, autoDecision(apex.ID), 1)
	require.NoError(t, err)
	require.NotNil(t, refreshed.OriginalManufacturerID)
	assert.Equal(t, uint(99), *refreshed.OriginalManufacturerID)
}

func TestJobRepository_CountActiveExcludesShipped(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	first := f.Order("ORD-001", 0)
	second := f.Order("ORD-002", 0)

	mfg1, err := mfgRepo.FindOrCreateForOrder(ctx, first.ID)
	require.NoError(t, err)
	mfg2, err := mfgRepo.FindOrCreateForOrder(ctx, second.ID)
	require.NoError(t, err)

	_, err = repo.UpsertRouting(ctx, mfg1.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)
	shippedJob, err := repo.UpsertRouting(ctx, mfg2.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)

	count, err := repo.CountActiveByManufacturer(ctx, apex.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Shipping a job frees a capacity slot
	shippedJob.SimplifiedStatus = routing.SimplifiedStatusShipped
	require.NoError(t, repo.Save(ctx, shippedJob))

	count, err = repo.CountActiveByManufacturer(ctx, apex.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestJobRepository_CountActiveExcludesSuperseded(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	first := f.Order("ORD-001", 0)
	second := f.Order("ORD-002", 0)

	mfg1, err := mfgRepo.FindOrCreateForOrder(ctx, first.ID)
	require.NoError(t, err)
	mfg2, err := mfgRepo.FindOrCreateForOrder(ctx, second.ID)
	require.NoError(t, err)

	inProduction, err := repo.UpsertRouting(ctx, mfg1.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)
	inProduction.SimplifiedStatus = routing.SimplifiedStatusInProduction
	require.NoError(t, repo.Save(ctx, inProduction))

	superseded, err := repo.UpsertRouting(ctx, mfg2.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)
	superseded.Supersede(time.Now().UTC())
	require.NoError(t, repo.Save(ctx, superseded))

	// In-production jobs still occupy a slot; superseded jobs never do
	count, err := repo.CountActiveByManufacturer(ctx, apex.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestJobRepository_UpsertRevivesSupersededJob(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	order := f.Order("ORD-001", 0)
	mfg, err := mfgRepo.FindOrCreateForOrder(ctx, order.ID)
	require.NoError(t, err)

	job, err := repo.UpsertRouting(ctx, mfg.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)
	job.Supersede(time.Now().UTC())
	require.NoError(t, repo.Save(ctx, job))

	// The group is back in a later plan: same row, live again
	revived, err := repo.UpsertRouting(ctx, mfg.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)
	assert.Equal(t, job.ID, revived.ID)
	assert.False(t, revived.IsSuperseded())
	assert.Equal(t, routing.SimplifiedStatusNew, revived.SimplifiedStatus)
}

func TestJobRepository_UpsertRevivesSupersededPendingJob(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	order := f.Order("ORD-001", 0)
	mfg, err := mfgRepo.FindOrCreateForOrder(ctx, order.ID)
	require.NoError(t, err)

	job, err := repo.UpsertRouting(ctx, mfg.ID, pendingDecision(), 0)
	require.NoError(t, err)
	job.Supersede(time.Now().UTC())
	require.NoError(t, repo.Save(ctx, job))

	revived, err := repo.UpsertRouting(ctx, mfg.ID, pendingDecision(), 0)
	require.NoError(t, err)
	assert.Equal(t, job.ID, revived.ID)
	assert.True(t, revived.IsPending())
}

func TestJobRepository_UpsertUpdateMatchesApplyRouting(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	order := f.Order("ORD-001", 0)
	mfg, err := mfgRepo.FindOrCreateForOrder(ctx, order.ID)
	require.NoError(t, err)

	created, err := repo.UpsertRouting(ctx, mfg.ID, autoDecision(apex.ID), 3)
	require.NoError(t, err)

	refreshed := autoDecision(apex.ID)
	refreshed.RoutedBy = routing.RoutedByFallback
	refreshed.Trail = routing.NewTrail(routing.StageFallback, "selected", "Fallback to Apex Textiles (priority 2)")

	// Guard against the conflict clause drifting from the domain method
	expected := *created
	expected.ApplyRouting(refreshed, 5, time.Now().UTC())

	actual, err := repo.UpsertRouting(ctx, mfg.ID, refreshed, 5)
	require.NoError(t, err)

	assert.Equal(t, expected.ManufacturerID, actual.ManufacturerID)
	assert.Equal(t, expected.RoutedBy, actual.RoutedBy)
	assert.Equal(t, expected.RoutingReason, actual.RoutingReason)
	assert.Equal(t, expected.Priority, actual.Priority)
	assert.Equal(t, expected.SimplifiedStatus, actual.SimplifiedStatus)
	assert.Equal(t, expected.OriginalManufacturerID, actual.OriginalManufacturerID)
}

func TestJobRepository_FindPendingEnrichesOrderContext(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	routed := f.Order("ORD-001", 0)
	stuck := f.Order("ORD-002", 4,
		helpers.LineItemSpec{VariantID: 1, Quantity: 2, UnitPrice: "10.00"},
		helpers.LineItemSpec{VariantID: 2, Quantity: 1, UnitPrice: "5.25"},
	)

	mfg1, err := mfgRepo.FindOrCreateForOrder(ctx, routed.ID)
	require.NoError(t, err)
	mfg2, err := mfgRepo.FindOrCreateForOrder(ctx, stuck.ID)
	require.NoError(t, err)

	_, err = repo.UpsertRouting(ctx, mfg1.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)
	_, err = repo.UpsertRouting(ctx, mfg2.ID, pendingDecision(), 4)
	require.NoError(t, err)

	pending, err := repo.FindPending(ctx)

	require.NoError(t, err)
	require.Len(t, pending, 1)
	p := pending[0]
	assert.Equal(t, stuck.ID, p.OrderID)
	assert.Equal(t, "ORD-002", p.OrderCode)
	assert.Equal(t, int64(2), p.LineItemCount)
	assert.True(t, p.OrderTotal.Equal(decimal.RequireFromString("25.25")))
	assert.Equal(t, 4, p.Priority)
	assert.Equal(t, "No available manufacturers for product family", p.RoutingReason)
}

func TestJobRepository_FindHistoryNewestFirstWithManufacturerName(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	first := f.Order("ORD-001", 0)
	second := f.Order("ORD-002", 0)

	mfg1, err := mfgRepo.FindOrCreateForOrder(ctx, first.ID)
	require.NoError(t, err)
	olderJob, err := repo.UpsertRouting(ctx, mfg1.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)

	// Push the second job's created_at later so ordering is deterministic
	olderJob.CreatedAt = olderJob.CreatedAt.Add(-time.Minute)
	require.NoError(t, repo.Save(ctx, olderJob))

	mfg2, err := mfgRepo.FindOrCreateForOrder(ctx, second.ID)
	require.NoError(t, err)
	_, err = repo.UpsertRouting(ctx, mfg2.ID, pendingDecision(), 0)
	require.NoError(t, err)

	entries, err := repo.FindHistory(ctx, 10, 0)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].OrderID)
	assert.Equal(t, routing.RoutedByPending, entries[0].RoutedBy)
	assert.Empty(t, entries[0].ManufacturerName)
	assert.Equal(t, first.ID, entries[1].OrderID)
	assert.Equal(t, "Apex Textiles", entries[1].ManufacturerName)

	page, err := repo.FindHistory(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].OrderID)
}

func TestJobRepository_StatsCountsSplitOrders(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	basel := f.Manufacturer("Basel Mills", "BASEL")
	split := f.Order("ORD-001", 0)
	plain := f.Order("ORD-002", 0)

	mfg1, err := mfgRepo.FindOrCreateForOrder(ctx, split.ID)
	require.NoError(t, err)
	mfg2, err := mfgRepo.FindOrCreateForOrder(ctx, plain.ID)
	require.NoError(t, err)

	_, err = repo.UpsertRouting(ctx, mfg1.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)
	fallbackDecision := autoDecision(basel.ID)
	fallbackDecision.RoutedBy = routing.RoutedByFallback
	_, err = repo.UpsertRouting(ctx, mfg1.ID, fallbackDecision, 0)
	require.NoError(t, err)
	_, err = repo.UpsertRouting(ctx, mfg2.ID, pendingDecision(), 0)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalJobs)
	assert.Equal(t, int64(1), stats.ByRoutedBy[routing.RoutedByAuto])
	assert.Equal(t, int64(1), stats.ByRoutedBy[routing.RoutedByFallback])
	assert.Equal(t, int64(1), stats.ByRoutedBy[routing.RoutedByPending])
	assert.Equal(t, int64(1), stats.SplitOrders)
}

func TestJobRepository_SupersededJobsLeaveQueueAndStats(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormManufacturerJobRepository(db)
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	resolved := f.Order("ORD-001", 0)
	mfg, err := mfgRepo.FindOrCreateForOrder(ctx, resolved.ID)
	require.NoError(t, err)

	// A first pass queued the order; a later pass resolved it
	stale, err := repo.UpsertRouting(ctx, mfg.ID, pendingDecision(), 0)
	require.NoError(t, err)
	_, err = repo.UpsertRouting(ctx, mfg.ID, autoDecision(apex.ID), 0)
	require.NoError(t, err)
	stale.Supersede(time.Now().UTC())
	require.NoError(t, repo.Save(ctx, stale))

	pending, err := repo.FindPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalJobs)
	assert.Zero(t, stats.ByRoutedBy[routing.RoutedByPending])
	assert.Equal(t, int64(1), stats.ByRoutedBy[routing.RoutedByAuto])
}
