package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeltran/stitchops/internal/application/routing/services"
	"github.com/rbeltran/stitchops/internal/domain/catalog"
	"github.com/rbeltran/stitchops/test/helpers"
)

func TestFallbackSelector_SkipsExcludedAndPicksNextAvailable(t *testing.T) {
	c := knitwearCatalog()
	jobs := helpers.NewMockJobRepository()
	selector := services.NewFallbackSelector(c, services.NewAvailabilityChecker(c, jobs))

	// Manufacturer 1 just failed availability; it must be skipped even
	// though its flags look fine.
	id, reason, err := selector.FindFallback(context.Background(), 100, uintPtr(1))

	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, uint(2), *id)
	assert.Equal(t, "Fallback to Basel Mills (priority 2)", reason)
}

func TestFallbackSelector_CapacityCheckedUnlikeResolution(t *testing.T) {
	c := knitwearCatalog()
	three := 3
	c.AddManufacturer(catalog.Manufacturer{
		ID: 2, Name: "Basel Mills", IsActive: true, AcceptingNewOrders: true,
		MaxConcurrentJobs: &three,
	})
	jobs := helpers.NewMockJobRepository()
	jobs.ActiveCounts[2] = 3
	selector := services.NewFallbackSelector(c, services.NewAvailabilityChecker(c, jobs))

	id, reason, err := selector.FindFallback(context.Background(), 100, uintPtr(1))

	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, "No fallback manufacturers available", reason)
}

func TestFallbackSelector_NoExclusionStartsFromPrimary(t *testing.T) {
	c := knitwearCatalog()
	jobs := helpers.NewMockJobRepository()
	selector := services.NewFallbackSelector(c, services.NewAvailabilityChecker(c, jobs))

	id, reason, err := selector.FindFallback(context.Background(), 100, nil)

	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, uint(1), *id)
	assert.Equal(t, "Fallback to Apex Textiles (priority 1)", reason)
}

func TestFallbackSelector_EmptyFamilyList(t *testing.T) {
	c := helpers.NewMockCatalogReader()
	c.AddFamily(catalog.ProductFamily{ID: 100, Name: "Knits"})
	jobs := helpers.NewMockJobRepository()
	selector := services.NewFallbackSelector(c, services.NewAvailabilityChecker(c, jobs))

	id, reason, err := selector.FindFallback(context.Background(), 100, nil)

	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, "No fallback manufacturers available", reason)
}
