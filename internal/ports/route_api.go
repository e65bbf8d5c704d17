package ports

import (
	"context"
	"trip-planner/internal/api/dto"
)

// Port: the remote persistence service backing the route collection.
// All records cross this boundary in their wire shape.
type RouteAPI interface {
	// Return every route point known to the service.
	GetRoute(ctx context.Context) ([]dto.RoutePoint, error)
	// Store a new route point; the service assigns its ID.
	CreateRoutePoint(ctx context.Context, point dto.RoutePoint) (dto.RoutePoint, error)
	// Replace an existing route point and return the stored version.
	UpdateRoutePoint(ctx context.Context, point dto.RoutePoint) (dto.RoutePoint, error)
	// Remove a route point. Fails when the point no longer exists.
	DeleteRoutePoint(ctx context.Context, point dto.RoutePoint) error
}
