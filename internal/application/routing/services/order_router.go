package services

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/domain/catalog"
	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// OrderRouter plans manufacturer assignments for every line item of an
// order: resolution cascade, then full availability on the candidate, then
// fallback search on failure. Planning is a pure pass with no persistence;
// unresolvable items become pending decisions rather than errors, so the
// whole order is always fully routed.
type OrderRouter struct {
	orders       catalog.OrderRepository
	resolver     *ManufacturerResolver
	availability *AvailabilityChecker
	fallback     *FallbackSelector
}

// NewOrderRouter creates a new order router
func NewOrderRouter(
	orders catalog.OrderRepository,
	resolver *ManufacturerResolver,
	availability *AvailabilityChecker,
	fallback *FallbackSelector,
) *OrderRouter {
	return &OrderRouter{
		orders:       orders,
		resolver:     resolver,
		availability: availability,
		fallback:     fallback,
	}
}

// Route produces exactly one decision per order line item.
func (r *OrderRouter) Route(ctx context.Context, orderID uint) (*routing.OrderRoutingResult, error) {
	order, err := r.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, &catalog.ErrOrderNotFound{OrderID: orderID}
	}

	result := routing.NewOrderRoutingResult(orderID)
	for _, item := range order.LineItems {
		result.Append(r.routeLineItem(ctx, item))
	}
	return result, nil
}

// routeLineItem never fails: store errors on an individual item degrade to
// a pending decision carrying the error in its trail.
func (r *OrderRouter) routeLineItem(ctx context.Context, item catalog.OrderLineItem) routing.Decision {
	d := routing.Decision{
		LineItemID: item.ID,
		VariantID:  item.VariantID,
	}

	res, err := r.resolver.Resolve(ctx, item.VariantID)
	if err != nil {
		d.RoutedBy = routing.RoutedByPending
		d.Trail = routing.NewTrail(routing.StageResolution, "error",
			fmt.Sprintf("Resolution failed: %v", err))
		return d
	}

	d.ProductID = res.ProductID
	d.ProductFamilyID = res.ProductFamilyID
	d.Trail = res.Trail

	// No candidate at all: pending immediately, no availability or
	// fallback attempted.
	if res.ManufacturerID == nil {
		d.RoutedBy = routing.RoutedByPending
		return d
	}

	avail, err := r.availability.Check(ctx, *res.ManufacturerID)
	if err != nil {
		d.RoutedBy = routing.RoutedByPending
		d.Trail = d.Trail.With(routing.StageAvailability, "error",
			fmt.Sprintf("Availability check failed: %v", err))
		return d
	}

	if avail.Available {
		d.ManufacturerID = res.ManufacturerID
		d.RoutedBy = routing.RoutedByAuto
		return d
	}

	d.Trail = d.Trail.With(routing.StageAvailability, "unavailable", avail.Reason)

	// Without a known family there is nowhere to search for a fallback.
	if res.ProductFamilyID == nil {
		d.RoutedBy = routing.RoutedByPending
		return d
	}

	fallbackID, fallbackReason, err := r.fallback.FindFallback(ctx, *res.ProductFamilyID, res.ManufacturerID)
	if err != nil {
		d.RoutedBy = routing.RoutedByPending
		d.Trail = d.Trail.With(routing.StageFallback, "error",
			fmt.Sprintf("Fallback search failed: %v", err))
		return d
	}

	if fallbackID != nil {
		d.ManufacturerID = fallbackID
		d.RoutedBy = routing.RoutedByFallback
		d.Trail = d.Trail.With(routing.StageFallback, "selected", fallbackReason)
		return d
	}

	d.RoutedBy = routing.RoutedByPending
	d.Trail = d.Trail.With(routing.StageFallback, "exhausted", fallbackReason)
	return d
}
