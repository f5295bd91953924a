package commands

import (
	"context"
	"fmt"

	"github.com/rbeltran/stitchops/internal/application/common"
	"github.com/rbeltran/stitchops/internal/application/routing/services"
)

// RouteOrderCommand plans manufacturer assignments for an order. It is a
// pure planning pass; nothing is persisted.
type RouteOrderCommand struct {
	OrderID uint
}

// RouteOrderHandler handles the RouteOrder command
type RouteOrderHandler struct {
	router *services.OrderRouter
}

// NewRouteOrderHandler creates a new RouteOrderHandler
func NewRouteOrderHandler(router *services.OrderRouter) *RouteOrderHandler {
	return &RouteOrderHandler{router: router}
}

// Handle executes the RouteOrder command. The response is a
// *routing.OrderRoutingResult.
func (h *RouteOrderHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RouteOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RouteOrderCommand")
	}

	return h.router.Route(ctx, cmd.OrderID)
}
