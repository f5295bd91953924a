package persistence_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeltran/stitchops/internal/adapters/persistence"
	"github.com/rbeltran/stitchops/test/helpers"
)

func TestOrderRepository_FindByIDLoadsLineItems(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormOrderRepository(db)

	seeded := f.Order("ORD-001", 5,
		helpers.LineItemSpec{VariantID: 1, Quantity: 2, UnitPrice: "19.99"},
		helpers.LineItemSpec{VariantID: 2, Quantity: 1, UnitPrice: "45.50"},
	)

	order, err := repo.FindByID(context.Background(), seeded.ID)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "ORD-001", order.Code)
	assert.Equal(t, 5, order.Priority)
	require.Len(t, order.LineItems, 2)
	assert.Equal(t, uint(1), order.LineItems[0].VariantID)
	assert.True(t, order.LineItems[0].UnitPrice.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, order.TotalValue().Equal(decimal.RequireFromString("85.48")))
}

func TestOrderRepository_FindByIDMissingReturnsNil(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormOrderRepository(db)

	order, err := repo.FindByID(context.Background(), 999)

	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestOrderRepository_FindUnroutedIDsExcludesMaterialized(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormOrderRepository(db)

	first := f.Order("ORD-001", 0)
	second := f.Order("ORD-002", 0)
	third := f.Order("ORD-003", 0)

	// Materializing an order gives it a manufacturing record
	mfgRepo := persistence.NewGormManufacturingRepository(db)
	_, err := mfgRepo.FindOrCreateForOrder(context.Background(), second.ID)
	require.NoError(t, err)

	ids, err := repo.FindUnroutedIDs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID, third.ID}, ids)
}
