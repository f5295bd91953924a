package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeltran/stitchops/internal/adapters/persistence"
	"github.com/rbeltran/stitchops/test/helpers"
)

func TestCatalogRepository_MissingRecordsReturnNil(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCatalogRepository(db)
	ctx := context.Background()

	variant, err := repo.FindVariant(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, variant)

	manufacturer, err := repo.FindManufacturer(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, manufacturer)
}

func TestCatalogRepository_FindManufacturer(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormCatalogRepository(db)

	seeded := f.ManufacturerWithCapacity("Apex Textiles", "APEX", 3)

	found, err := repo.FindManufacturer(context.Background(), seeded.ID)

	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Apex Textiles", found.Name)
	assert.Equal(t, "APEX", found.Code)
	assert.True(t, found.IsActive)
	assert.True(t, found.AcceptingNewOrders)
	require.NotNil(t, found.MaxConcurrentJobs)
	assert.Equal(t, 3, *found.MaxConcurrentJobs)
}

func TestCatalogRepository_ListFamilyManufacturersOrdersByPriority(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormCatalogRepository(db)

	apex := f.Manufacturer("Apex Textiles", "APEX")
	basel := f.Manufacturer("Basel Mills", "BASEL")
	crest := f.Manufacturer("Crest Garments", "CREST")
	family := f.Family("Knits", nil)

	// Seed out of order; expect ascending priority back
	f.FamilyManufacturer(family.ID, crest.ID, 3)
	f.FamilyManufacturer(family.ID, apex.ID, 1)
	inactive := f.FamilyManufacturer(family.ID, basel.ID, 2)
	inactive.IsActive = false
	require.NoError(t, db.Save(inactive).Error)

	entries, err := repo.ListFamilyManufacturers(context.Background(), family.ID)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, apex.ID, entries[0].ManufacturerID)
	assert.Equal(t, 1, entries[0].Priority)
	assert.Equal(t, crest.ID, entries[1].ManufacturerID)
	assert.Equal(t, 3, entries[1].Priority)
}

func TestCatalogRepository_VariantProductCategoryFamilyChain(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := helpers.NewFixtures(t, db)
	repo := persistence.NewGormCatalogRepository(db)
	ctx := context.Background()

	apex := f.Manufacturer("Apex Textiles", "APEX")
	family := f.Family("Knits", helpers.UintPtr(apex.ID))
	category := f.Category("Sweaters", helpers.UintPtr(family.ID))
	product := f.Product("Wool Sweater", category.ID, nil, nil)
	variant := f.Variant(product.ID, "WS-M-RED")

	v, err := repo.FindVariant(ctx, variant.ID)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, product.ID, v.ProductID)
	assert.Equal(t, "WS-M-RED", v.SKU)

	p, err := repo.FindProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Nil(t, p.ProductFamilyID)
	assert.Equal(t, category.ID, p.CategoryID)

	c, err := repo.FindCategory(ctx, category.ID)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, c.ProductFamilyID)
	assert.Equal(t, family.ID, *c.ProductFamilyID)

	fam, err := repo.FindFamily(ctx, family.ID)
	require.NoError(t, err)
	require.NotNil(t, fam)
	require.NotNil(t, fam.DefaultManufacturerID)
	assert.Equal(t, apex.ID, *fam.DefaultManufacturerID)
}
