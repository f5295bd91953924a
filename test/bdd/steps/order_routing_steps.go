package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rbeltran/stitchops/internal/adapters/persistence"
	"github.com/rbeltran/stitchops/internal/application/routing/services"
	"github.com/rbeltran/stitchops/internal/domain/routing"
	"github.com/rbeltran/stitchops/internal/infrastructure/database"
)

type orderRoutingContext struct {
	db *gorm.DB

	catalogRepo       *persistence.GormCatalogRepository
	orderRepo         *persistence.GormOrderRepository
	manufacturingRepo *persistence.GormManufacturingRepository
	jobRepo           *persistence.GormManufacturerJobRepository

	router       *services.OrderRouter
	materializer *services.JobMaterializer
	assigner     *services.ManualAssigner

	manufacturers map[string]*persistence.ManufacturerModel
	families      map[string]*persistence.ProductFamilyModel
	categories    map[string]*persistence.CategoryModel
	products      map[string]*persistence.ProductModel
	variants      map[string]*persistence.ProductVariantModel
	orders        map[string]*persistence.OrderModel

	capacitySeeds int

	lastPlan *routing.OrderRoutingResult
	lastJob  *routing.ManufacturerJob
}

func (c *orderRoutingContext) reset() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to create test database: %w", err)
	}
	c.db = db

	c.catalogRepo = persistence.NewGormCatalogRepository(db)
	c.orderRepo = persistence.NewGormOrderRepository(db)
	c.manufacturingRepo = persistence.NewGormManufacturingRepository(db)
	c.jobRepo = persistence.NewGormManufacturerJobRepository(db)

	availability := services.NewAvailabilityChecker(c.catalogRepo, c.jobRepo)
	resolver := services.NewManufacturerResolver(c.catalogRepo)
	fallback := services.NewFallbackSelector(c.catalogRepo, availability)
	c.router = services.NewOrderRouter(c.orderRepo, resolver, availability, fallback)
	c.materializer = services.NewJobMaterializer(c.orderRepo, c.manufacturingRepo, c.jobRepo)
	c.assigner = services.NewManualAssigner(c.jobRepo, availability)

	c.manufacturers = make(map[string]*persistence.ManufacturerModel)
	c.families = make(map[string]*persistence.ProductFamilyModel)
	c.categories = make(map[string]*persistence.CategoryModel)
	c.products = make(map[string]*persistence.ProductModel)
	c.variants = make(map[string]*persistence.ProductVariantModel)
	c.orders = make(map[string]*persistence.OrderModel)
	c.capacitySeeds = 0
	c.lastPlan = nil
	c.lastJob = nil
	return nil
}

// Given steps

func (c *orderRoutingContext) aManufacturerWithCode(name, code string) error {
	m := &persistence.ManufacturerModel{
		Name:               name,
		Code:               code,
		IsActive:           true,
		AcceptingNewOrders: true,
	}
	if err := c.db.Create(m).Error; err != nil {
		return err
	}
	c.manufacturers[code] = m
	return nil
}

func (c *orderRoutingContext) aProductFamilyWithPriorityList(name string, table *godog.Table) error {
	family := &persistence.ProductFamilyModel{Name: name}
	if err := c.db.Create(family).Error; err != nil {
		return err
	}
	c.families[name] = family

	for _, row := range table.Rows[1:] {
		code := row.Cells[0].Value
		m, ok := c.manufacturers[code]
		if !ok {
			return fmt.Errorf("unknown manufacturer code %q", code)
		}
		var priority int
		if _, err := fmt.Sscanf(row.Cells[1].Value, "%d", &priority); err != nil {
			return fmt.Errorf("invalid priority %q: %w", row.Cells[1].Value, err)
		}
		entry := &persistence.ProductFamilyManufacturerModel{
			ProductFamilyID: family.ID,
			ManufacturerID:  m.ID,
			Priority:        priority,
			IsActive:        true,
		}
		if err := c.db.Create(entry).Error; err != nil {
			return err
		}
	}
	return nil
}

func (c *orderRoutingContext) aCategoryInFamily(name, familyName string) error {
	family, ok := c.families[familyName]
	if !ok {
		return fmt.Errorf("unknown product family %q", familyName)
	}
	category := &persistence.CategoryModel{Name: name, ProductFamilyID: &family.ID}
	if err := c.db.Create(category).Error; err != nil {
		return err
	}
	c.categories[name] = category
	return nil
}

func (c *orderRoutingContext) aProductInCategory(name, categoryName string) error {
	category, ok := c.categories[categoryName]
	if !ok {
		return fmt.Errorf("unknown category %q", categoryName)
	}
	product := &persistence.ProductModel{Name: name, CategoryID: category.ID}
	if err := c.db.Create(product).Error; err != nil {
		return err
	}
	c.products[name] = product
	return nil
}

func (c *orderRoutingContext) aVariantOfProduct(sku, productName string) error {
	product, ok := c.products[productName]
	if !ok {
		return fmt.Errorf("unknown product %q", productName)
	}
	variant := &persistence.ProductVariantModel{ProductID: product.ID, SKU: sku}
	if err := c.db.Create(variant).Error; err != nil {
		return err
	}
	c.variants[sku] = variant
	return nil
}

func (c *orderRoutingContext) productHasDefaultManufacturer(productName, code string) error {
	product, ok := c.products[productName]
	if !ok {
		return fmt.Errorf("unknown product %q", productName)
	}
	m, ok := c.manufacturers[code]
	if !ok {
		return fmt.Errorf("unknown manufacturer code %q", code)
	}
	product.DefaultManufacturerID = &m.ID
	return c.db.Save(product).Error
}

func (c *orderRoutingContext) manufacturerHasJobLimit(code string, limit int) error {
	m, ok := c.manufacturers[code]
	if !ok {
		return fmt.Errorf("unknown manufacturer code %q", code)
	}
	m.MaxConcurrentJobs = &limit
	return c.db.Save(m).Error
}

func (c *orderRoutingContext) manufacturerHoldsActiveJobs(code string, count int) error {
	m, ok := c.manufacturers[code]
	if !ok {
		return fmt.Errorf("unknown manufacturer code %q", code)
	}

	ctx := context.Background()
	for i := 0; i < count; i++ {
		c.capacitySeeds++
		order := &persistence.OrderModel{Code: fmt.Sprintf("SEED-%s-%d", code, c.capacitySeeds)}
		if err := c.db.Create(order).Error; err != nil {
			return err
		}
		mfg, err := c.manufacturingRepo.FindOrCreateForOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		d := routing.Decision{
			ManufacturerID: &m.ID,
			RoutedBy:       routing.RoutedByAuto,
			Trail:          routing.NewTrail(routing.StageResolution, "seed", "seeded job"),
		}
		if _, err := c.jobRepo.UpsertRouting(ctx, mfg.ID, d, 0); err != nil {
			return err
		}
	}
	return nil
}

func (c *orderRoutingContext) manufacturerIsInactive(code string) error {
	m, ok := c.manufacturers[code]
	if !ok {
		return fmt.Errorf("unknown manufacturer code %q", code)
	}
	m.IsActive = false
	return c.db.Save(m).Error
}

func (c *orderRoutingContext) manufacturerNotAcceptingOrders(code string) error {
	m, ok := c.manufacturers[code]
	if !ok {
		return fmt.Errorf("unknown manufacturer code %q", code)
	}
	m.AcceptingNewOrders = false
	return c.db.Save(m).Error
}

func (c *orderRoutingContext) anOrderWithLineItems(orderCode string, table *godog.Table) error {
	order := &persistence.OrderModel{Code: orderCode}
	if err := c.db.Create(order).Error; err != nil {
		return err
	}
	c.orders[orderCode] = order

	for _, row := range table.Rows[1:] {
		sku := row.Cells[0].Value
		variant, ok := c.variants[sku]
		if !ok {
			return fmt.Errorf("unknown variant %q", sku)
		}
		var quantity int
		if _, err := fmt.Sscanf(row.Cells[1].Value, "%d", &quantity); err != nil {
			return fmt.Errorf("invalid quantity %q: %w", row.Cells[1].Value, err)
		}
		item := &persistence.OrderLineItemModel{
			OrderID:   order.ID,
			VariantID: variant.ID,
			Quantity:  quantity,
			UnitPrice: decimal.RequireFromString("10.00"),
		}
		if err := c.db.Create(item).Error; err != nil {
			return err
		}
	}
	return nil
}

// When steps

func (c *orderRoutingContext) theOrderIsRouted(orderCode string) error {
	order, ok := c.orders[orderCode]
	if !ok {
		return fmt.Errorf("unknown order %q", orderCode)
	}
	plan, err := c.router.Route(context.Background(), order.ID)
	if err != nil {
		return err
	}
	c.lastPlan = plan
	return nil
}

func (c *orderRoutingContext) theOrderIsRoutedAndMaterialized(orderCode string) error {
	if err := c.theOrderIsRouted(orderCode); err != nil {
		return err
	}
	order := c.orders[orderCode]
	out, err := c.materializer.Materialize(context.Background(), order.ID, c.lastPlan)
	if err != nil {
		return err
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("materialization errors: %s", strings.Join(out.Errors, "; "))
	}
	return nil
}

func (c *orderRoutingContext) operatorAssignsOrderJob(operator, orderCode, code, reason string) error {
	job, err := c.firstJobForOrder(orderCode)
	if err != nil {
		return err
	}
	m, ok := c.manufacturers[code]
	if !ok {
		return fmt.Errorf("unknown manufacturer code %q", code)
	}

	result, err := c.assigner.Assign(context.Background(), job.ID, m.ID, reason, operator)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("assignment failed: %s", result.Error)
	}

	c.lastJob, err = c.jobRepo.FindByID(context.Background(), job.ID)
	return err
}

// Then steps

func (c *orderRoutingContext) everyLineItemRoutesTo(code string) error {
	m, ok := c.manufacturers[code]
	if !ok {
		return fmt.Errorf("unknown manufacturer code %q", code)
	}
	if c.lastPlan == nil {
		return fmt.Errorf("no routing plan recorded")
	}
	for _, d := range c.lastPlan.Decisions {
		if d.ManufacturerID == nil || *d.ManufacturerID != m.ID {
			return fmt.Errorf("line item %d routed to %v, expected %d", d.LineItemID, d.ManufacturerID, m.ID)
		}
	}
	return nil
}

func (c *orderRoutingContext) theRoutingMethodIs(method string) error {
	expected := routing.RoutedBy(method)

	if c.lastJob != nil {
		if c.lastJob.RoutedBy != expected {
			return fmt.Errorf("job routed_by is %s, expected %s", c.lastJob.RoutedBy, expected)
		}
		return nil
	}

	if c.lastPlan == nil {
		return fmt.Errorf("no routing plan recorded")
	}
	for _, d := range c.lastPlan.Decisions {
		if d.RoutedBy != expected {
			return fmt.Errorf("line item %d routed_by is %s, expected %s", d.LineItemID, d.RoutedBy, expected)
		}
	}
	return nil
}

func (c *orderRoutingContext) theRoutingReasonContains(fragment string) error {
	if c.lastJob != nil {
		if !strings.Contains(c.lastJob.RoutingReason, fragment) {
			return fmt.Errorf("job reason %q does not contain %q", c.lastJob.RoutingReason, fragment)
		}
		return nil
	}

	if c.lastPlan == nil {
		return fmt.Errorf("no routing plan recorded")
	}
	for _, d := range c.lastPlan.Decisions {
		if strings.Contains(d.Reason(), fragment) {
			return nil
		}
	}
	return fmt.Errorf("no decision reason contains %q", fragment)
}

func (c *orderRoutingContext) aPendingJobExistsForOrder(orderCode string) error {
	jobs, err := c.jobsForOrder(orderCode)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if job.IsPending() {
			return nil
		}
	}
	return fmt.Errorf("no pending job for order %s", orderCode)
}

func (c *orderRoutingContext) thePendingQueueContainsOrder(orderCode string) error {
	order, ok := c.orders[orderCode]
	if !ok {
		return fmt.Errorf("unknown order %q", orderCode)
	}
	pending, err := c.jobRepo.FindPending(context.Background())
	if err != nil {
		return err
	}
	for _, p := range pending {
		if p.OrderID == order.ID {
			return nil
		}
	}
	return fmt.Errorf("pending queue does not contain order %s", orderCode)
}

func (c *orderRoutingContext) orderIsSplitAcross(orderCode string, count int) error {
	if c.lastPlan == nil {
		return fmt.Errorf("no routing plan recorded")
	}
	if !c.lastPlan.SplitOrder {
		return fmt.Errorf("order %s was not split", orderCode)
	}

	resolved := 0
	for _, g := range c.lastPlan.Groups {
		if g.ManufacturerID != nil {
			resolved++
		}
	}
	if resolved != count {
		return fmt.Errorf("order %s split across %d manufacturers, expected %d", orderCode, resolved, count)
	}
	return nil
}

func (c *orderRoutingContext) oneJobPerManufacturerGroup(orderCode string) error {
	jobs, err := c.jobsForOrder(orderCode)
	if err != nil {
		return err
	}
	if c.lastPlan == nil {
		return fmt.Errorf("no routing plan recorded")
	}
	if len(jobs) != len(c.lastPlan.Groups) {
		return fmt.Errorf("order %s has %d jobs for %d groups", orderCode, len(jobs), len(c.lastPlan.Groups))
	}
	return nil
}

func (c *orderRoutingContext) exactlyNJobsExistForOrder(count int, orderCode string) error {
	jobs, err := c.jobsForOrder(orderCode)
	if err != nil {
		return err
	}
	if len(jobs) != count {
		return fmt.Errorf("order %s has %d jobs, expected %d", orderCode, len(jobs), count)
	}
	return nil
}

func (c *orderRoutingContext) theJobForOrderIsAssignedTo(orderCode, code string) error {
	m, ok := c.manufacturers[code]
	if !ok {
		return fmt.Errorf("unknown manufacturer code %q", code)
	}
	if c.lastJob == nil {
		return fmt.Errorf("no job recorded")
	}
	if c.lastJob.ManufacturerID == nil || *c.lastJob.ManufacturerID != m.ID {
		return fmt.Errorf("job assigned to %v, expected %d", c.lastJob.ManufacturerID, m.ID)
	}
	return nil
}

func (c *orderRoutingContext) theJobRecordsOriginalManufacturer(code string) error {
	m, ok := c.manufacturers[code]
	if !ok {
		return fmt.Errorf("unknown manufacturer code %q", code)
	}
	if c.lastJob == nil {
		return fmt.Errorf("no job recorded")
	}
	if c.lastJob.OriginalManufacturerID == nil || *c.lastJob.OriginalManufacturerID != m.ID {
		return fmt.Errorf("original manufacturer is %v, expected %d", c.lastJob.OriginalManufacturerID, m.ID)
	}
	return nil
}

// helpers

func (c *orderRoutingContext) jobsForOrder(orderCode string) ([]*routing.ManufacturerJob, error) {
	order, ok := c.orders[orderCode]
	if !ok {
		return nil, fmt.Errorf("unknown order %q", orderCode)
	}
	mfg, err := c.manufacturingRepo.FindOrCreateForOrder(context.Background(), order.ID)
	if err != nil {
		return nil, err
	}
	return c.jobRepo.FindByManufacturing(context.Background(), mfg.ID)
}

func (c *orderRoutingContext) firstJobForOrder(orderCode string) (*routing.ManufacturerJob, error) {
	jobs, err := c.jobsForOrder(orderCode)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no jobs for order %s", orderCode)
	}
	return jobs[0], nil
}

// InitializeOrderRoutingScenario registers the order routing step definitions
func InitializeOrderRoutingScenario(sc *godog.ScenarioContext) {
	ctx := &orderRoutingContext{}

	sc.Before(func(goCtx context.Context, scenario *godog.Scenario) (context.Context, error) {
		return goCtx, ctx.reset()
	})

	sc.Step(`^a manufacturer "([^"]*)" with code "([^"]*)"$`, ctx.aManufacturerWithCode)
	sc.Step(`^a product family "([^"]*)" with priority list:$`, ctx.aProductFamilyWithPriorityList)
	sc.Step(`^a category "([^"]*)" in family "([^"]*)"$`, ctx.aCategoryInFamily)
	sc.Step(`^a product "([^"]*)" in category "([^"]*)"$`, ctx.aProductInCategory)
	sc.Step(`^a variant "([^"]*)" of product "([^"]*)"$`, ctx.aVariantOfProduct)
	sc.Step(`^product "([^"]*)" has default manufacturer "([^"]*)"$`, ctx.productHasDefaultManufacturer)
	sc.Step(`^manufacturer "([^"]*)" has a limit of (\d+) concurrent jobs$`, ctx.manufacturerHasJobLimit)
	sc.Step(`^manufacturer "([^"]*)" already holds (\d+) active jobs$`, ctx.manufacturerHoldsActiveJobs)
	sc.Step(`^manufacturer "([^"]*)" is inactive$`, ctx.manufacturerIsInactive)
	sc.Step(`^manufacturer "([^"]*)" is not accepting new orders$`, ctx.manufacturerNotAcceptingOrders)
	sc.Step(`^an order "([^"]*)" with line items:$`, ctx.anOrderWithLineItems)

	sc.Step(`^the order "([^"]*)" is routed$`, ctx.theOrderIsRouted)
	sc.Step(`^the order "([^"]*)" is routed and materialized$`, ctx.theOrderIsRoutedAndMaterialized)
	sc.Step(`^an operator "([^"]*)" assigns the order "([^"]*)" job to "([^"]*)" because "([^"]*)"$`, ctx.operatorAssignsOrderJob)

	sc.Step(`^every line item routes to "([^"]*)"$`, ctx.everyLineItemRoutesTo)
	sc.Step(`^the routing method is "([^"]*)"$`, ctx.theRoutingMethodIs)
	sc.Step(`^the routing reason contains "([^"]*)"$`, ctx.theRoutingReasonContains)
	sc.Step(`^a pending job exists for order "([^"]*)"$`, ctx.aPendingJobExistsForOrder)
	sc.Step(`^the pending queue contains order "([^"]*)"$`, ctx.thePendingQueueContainsOrder)
	sc.Step(`^the order "([^"]*)" is split across (\d+) manufacturers$`, ctx.orderIsSplitAcross)
	sc.Step(`^one job exists for each manufacturer group of order "([^"]*)"$`, ctx.oneJobPerManufacturerGroup)
	sc.Step(`^exactly (\d+) job exists for order "([^"]*)"$`, ctx.exactlyNJobsExistForOrder)
	sc.Step(`^the job for order "([^"]*)" is assigned to "([^"]*)"$`, ctx.theJobForOrderIsAssignedTo)
	sc.Step(`^the job records "([^"]*)" as the original manufacturer$`, ctx.theJobRecordsOriginalManufacturer)
}
