package commands_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbeltran/stitchops/internal/application/routing/commands"
	"github.com/rbeltran/stitchops/internal/application/routing/services"
	"github.com/rbeltran/stitchops/internal/domain/catalog"
	"github.com/rbeltran/stitchops/test/helpers"
)

func uintPtr(v uint) *uint { return &v }

// batchFixture wires a catalog with one routable family plus three orders:
// two routable, one whose variant is unknown (goes pending).
func batchFixture() (*helpers.MockOrderRepository, *helpers.MockJobRepository, *commands.RouteAllUnroutedHandler) {
	c := helpers.NewMockCatalogReader()
	c.AddManufacturer(catalog.Manufacturer{ID: 1, Name: "Apex Textiles", IsActive: true, AcceptingNewOrders: true})
	c.AddFamily(catalog.ProductFamily{ID: 100, Name: "Knits", DefaultManufacturerID: uintPtr(1)})
	c.AddCategory(catalog.Category{ID: 200, Name: "Sweaters", ProductFamilyID: uintPtr(100)})
	c.AddProduct(catalog.Product{ID: 300, Name: "Wool Sweater", CategoryID: 200})
	c.AddVariant(catalog.ProductVariant{ID: 400, ProductID: 300, SKU: "WS-M-RED"})

	orders := helpers.NewMockOrderRepository()
	orders.AddOrder(catalog.Order{ID: 1, Code: "ORD-001",
		LineItems: []catalog.OrderLineItem{{ID: 11, OrderID: 1, VariantID: 400}}})
	orders.AddOrder(catalog.Order{ID: 2, Code: "ORD-002",
		LineItems: []catalog.OrderLineItem{{ID: 21, OrderID: 2, VariantID: 400}}})
	orders.AddOrder(catalog.Order{ID: 3, Code: "ORD-003",
		LineItems: []catalog.OrderLineItem{{ID: 31, OrderID: 3, VariantID: 999}}})

	jobs := helpers.NewMockJobRepository()
	availability := services.NewAvailabilityChecker(c, jobs)
	resolver := services.NewManufacturerResolver(c)
	fallback := services.NewFallbackSelector(c, availability)
	router := services.NewOrderRouter(orders, resolver, availability, fallback)
	materializer := services.NewJobMaterializer(orders, helpers.NewMockManufacturingRepository(), jobs)

	handler := commands.NewRouteAllUnroutedHandler(orders, router, materializer, 4, 100)
	return orders, jobs, handler
}

func TestRouteAllUnrouted_ProcessesEveryOrder(t *testing.T) {
	_, jobs, handler := batchFixture()

	resp, err := handler.Handle(context.Background(), &commands.RouteAllUnroutedCommand{})

	require.NoError(t, err)
	batch := resp.(*commands.RouteAllUnroutedResponse)
	assert.Equal(t, 3, batch.OrdersRouted)
	require.Len(t, batch.Outcomes, 3)

	byOrder := make(map[uint]commands.OrderOutcome)
	for _, o := range batch.Outcomes {
		byOrder[o.OrderID] = o
	}

	assert.Equal(t, 1, byOrder[1].Jobs)
	assert.Equal(t, 0, byOrder[1].PendingItems)
	assert.Equal(t, 1, byOrder[3].Jobs)
	assert.Equal(t, 1, byOrder[3].PendingItems)

	// Two routed jobs plus one pending job
	assert.Equal(t, 3, jobs.JobCount())
}

func TestRouteAllUnrouted_OutcomesCoverAllOrders(t *testing.T) {
	_, _, handler := batchFixture()

	resp, err := handler.Handle(context.Background(), &commands.RouteAllUnroutedCommand{Concurrency: 1, RatePerSecond: 1000})

	require.NoError(t, err)
	batch := resp.(*commands.RouteAllUnroutedResponse)

	ids := make([]uint, 0, len(batch.Outcomes))
	for _, o := range batch.Outcomes {
		ids = append(ids, o.OrderID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	assert.Equal(t, []uint{1, 2, 3}, ids)
}

func TestRouteAllUnrouted_InvalidRequestType(t *testing.T) {
	_, _, handler := batchFixture()

	_, err := handler.Handle(context.Background(), &commands.RouteOrderCommand{OrderID: 1})

	assert.Error(t, err)
}
