package ports

import (
	"context"
	"trip-planner/internal/domain"
)

// Port: storage used by the trip API service.
type RoutePointRepository interface {
	// Retrieve all route points in insertion order.
	ListRoutePoints(ctx context.Context) ([]domain.RoutePoint, error)
	// Insert a point whose ID has already been assigned.
	CreateRoutePoint(ctx context.Context, point domain.RoutePoint) (domain.RoutePoint, error)
	// Replace the stored point with the same ID.
	UpdateRoutePoint(ctx context.Context, point domain.RoutePoint) (domain.RoutePoint, error)
	// Delete the point with the given ID.
	DeleteRoutePoint(ctx context.Context, id string) error
}
