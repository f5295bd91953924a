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

func intPtr(v int) *int { return &v }

func TestAvailabilityChecker_UnknownManufacturerFailsClosed(t *testing.T) {
	catalogReader := helpers.NewMockCatalogReader()
	jobs := helpers.NewMockJobRepository()
	checker := services.NewAvailabilityChecker(catalogReader, jobs)

	avail, err := checker.Check(context.Background(), 99)

	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "Manufacturer not found", avail.Reason)
}

func TestAvailabilityChecker_InactiveManufacturer(t *testing.T) {
	catalogReader := helpers.NewMockCatalogReader()
	catalogReader.AddManufacturer(catalog.Manufacturer{
		ID: 1, Name: "Apex Textiles", IsActive: false, AcceptingNewOrders: true,
	})
	checker := services.NewAvailabilityChecker(catalogReader, helpers.NewMockJobRepository())

	avail, err := checker.Check(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "Manufacturer Apex Textiles is not active", avail.Reason)
}

func TestAvailabilityChecker_NotAcceptingNewOrders(t *testing.T) {
	catalogReader := helpers.NewMockCatalogReader()
	catalogReader.AddManufacturer(catalog.Manufacturer{
		ID: 1, Name: "Apex Textiles", IsActive: true, AcceptingNewOrders: false,
	})
	checker := services.NewAvailabilityChecker(catalogReader, helpers.NewMockJobRepository())

	avail, err := checker.Check(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "Manufacturer Apex Textiles is not accepting new orders", avail.Reason)
}

func TestAvailabilityChecker_AtCapacity(t *testing.T) {
	catalogReader := helpers.NewMockCatalogReader()
	catalogReader.AddManufacturer(catalog.Manufacturer{
		ID: 1, Name: "Apex Textiles", IsActive: true, AcceptingNewOrders: true,
		MaxConcurrentJobs: intPtr(3),
	})
	jobs := helpers.NewMockJobRepository()
	jobs.ActiveCounts[1] = 3
	checker := services.NewAvailabilityChecker(catalogReader, jobs)

	avail, err := checker.Check(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "Manufacturer Apex Textiles is at capacity (3/3 jobs)", avail.Reason)
}

func TestAvailabilityChecker_BelowCapacity(t *testing.T) {
	catalogReader := helpers.NewMockCatalogReader()
	catalogReader.AddManufacturer(catalog.Manufacturer{
		ID: 1, Name: "Apex Textiles", IsActive: true, AcceptingNewOrders: true,
		MaxConcurrentJobs: intPtr(3),
	})
	jobs := helpers.NewMockJobRepository()
	jobs.ActiveCounts[1] = 2
	checker := services.NewAvailabilityChecker(catalogReader, jobs)

	avail, err := checker.Check(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, "Manufacturer Apex Textiles is available", avail.Reason)
}

func TestAvailabilityChecker_NoCapacityLimitSkipsCount(t *testing.T) {
	catalogReader := helpers.NewMockCatalogReader()
	catalogReader.AddManufacturer(catalog.Manufacturer{
		ID: 1, Name: "Apex Textiles", IsActive: true, AcceptingNewOrders: true,
	})
	jobs := helpers.NewMockJobRepository()
	jobs.ActiveCounts[1] = 10000
	checker := services.NewAvailabilityChecker(catalogReader, jobs)

	avail, err := checker.Check(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, avail.Available)
}
