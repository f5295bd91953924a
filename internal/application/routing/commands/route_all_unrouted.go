package commands

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/rbeltran/stitchops/internal/application/common"
	"github.com/rbeltran/stitchops/internal/application/routing/services"
)

// RouteAllUnroutedCommand routes and materializes every order that has no
// manufacturing record yet. Zero values fall back to the configured
// defaults.
type RouteAllUnroutedCommand struct {
	Concurrency   int
	RatePerSecond float64
}

// OrderOutcome is the per-order result of a batch routing pass.
type OrderOutcome struct {
	OrderID      uint
	Jobs         int
	PendingItems int
	SplitOrder   bool
	Errors       []string
}

// RouteAllUnroutedResponse summarizes a batch routing pass.
type RouteAllUnroutedResponse struct {
	OrdersRouted int
	Outcomes     []OrderOutcome
}

// UnroutedOrderSource lists orders awaiting a first routing pass.
type UnroutedOrderSource interface {
	FindUnroutedIDs(ctx context.Context) ([]uint, error)
}

// RouteAllUnroutedHandler handles the batch routing command. Orders are
// processed with bounded concurrency behind a rate limiter so a large
// backlog cannot saturate the store. One order's failure never stops the
// rest of the batch.
type RouteAllUnroutedHandler struct {
	orders             UnroutedOrderSource
	router             *services.OrderRouter
	materializer       *services.JobMaterializer
	defaultConcurrency int
	defaultRate        float64
}

// NewRouteAllUnroutedHandler creates a new handler
func NewRouteAllUnroutedHandler(
	orders UnroutedOrderSource,
	router *services.OrderRouter,
	materializer *services.JobMaterializer,
	defaultConcurrency int,
	defaultRate float64,
) *RouteAllUnroutedHandler {
	return &RouteAllUnroutedHandler{
		orders:             orders,
		router:             router,
		materializer:       materializer,
		defaultConcurrency: defaultConcurrency,
		defaultRate:        defaultRate,
	}
}

// Handle executes the command. The response is a *RouteAllUnroutedResponse.
func (h *RouteAllUnroutedHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RouteAllUnroutedCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RouteAllUnroutedCommand")
	}

	concurrency := cmd.Concurrency
	if concurrency <= 0 {
		concurrency = h.defaultConcurrency
	}
	perSecond := cmd.RatePerSecond
	if perSecond <= 0 {
		perSecond = h.defaultRate
	}

	orderIDs, err := h.orders.FindUnroutedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unrouted orders: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(perSecond), 1)

	var mu sync.Mutex
	outcomes := make([]OrderOutcome, 0, len(orderIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, orderID := range orderIDs {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			outcome := h.routeOne(gctx, orderID)

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &RouteAllUnroutedResponse{
		OrdersRouted: len(outcomes),
		Outcomes:     outcomes,
	}, nil
}

func (h *RouteAllUnroutedHandler) routeOne(ctx context.Context, orderID uint) OrderOutcome {
	outcome := OrderOutcome{OrderID: orderID}

	plan, err := h.router.Route(ctx, orderID)
	if err != nil {
		outcome.Errors = append(outcome.Errors, err.Error())
		return outcome
	}
	outcome.PendingItems = len(plan.PendingAssignment)
	outcome.SplitOrder = plan.SplitOrder

	materialization, err := h.materializer.Materialize(ctx, orderID, plan)
	if err != nil {
		outcome.Errors = append(outcome.Errors, err.Error())
		return outcome
	}

	outcome.Jobs = len(materialization.Jobs)
	outcome.Errors = append(outcome.Errors, materialization.Errors...)
	return outcome
}
