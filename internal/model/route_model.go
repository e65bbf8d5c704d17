package model

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"
	"trip-planner/internal/api/dto"
	"trip-planner/internal/domain"
	"trip-planner/internal/filters"
	"trip-planner/internal/platform/obs"
	"trip-planner/internal/platform/slicex"
	"trip-planner/internal/ports"
	"trip-planner/internal/sorting"
)

// RouteModel owns the in-memory route collection and keeps it in step with the
// remote service behind ports.RouteAPI.
//
// A mutation reaches memory only after the remote call has succeeded, and the
// collection is always replaced as a whole: points that are not touched by an
// operation keep their pointer identity. Observers are notified after the
// collection has changed. Operations on the same point ID are serialized, so
// the stored point always matches the last confirmation from the service.
// Observers must not start a mutation of the same point synchronously from
// their callback.
type RouteModel struct {
	*Observable[[]*domain.RoutePoint, *domain.RoutePoint]

	api         ports.RouteAPI
	guard       *idGuard
	initialized atomic.Bool
}

func NewRouteModel(api ports.RouteAPI) *RouteModel {
	return &RouteModel{
		Observable: NewObservable[[]*domain.RoutePoint, *domain.RoutePoint]([]*domain.RoutePoint{}),
		api:        api,
		guard:      newIDGuard(),
	}
}

// Initialized reports whether Init has completed successfully at least once.
func (m *RouteModel) Initialized() bool {
	return m.initialized.Load()
}

// Init loads the whole route from the service and replaces the collection.
// On failure the collection is left as it was.
func (m *RouteModel) Init(ctx context.Context) (err error) {
	defer obs.Time(ctx, "route.Init")(&err)

	serverData, err := m.api.GetRoute(ctx)
	if err != nil {
		return newError(ErrInitialization, err)
	}

	points := make([]*domain.RoutePoint, 0, len(serverData))
	seen := make(map[string]struct{}, len(serverData))
	for _, current := range serverData {
		point := dto.AdaptRoutePointToModel(current)
		if _, ok := seen[point.ID]; ok {
			return newError(ErrInitialization, fmt.Errorf("init route model: duplicate route point id %q", point.ID))
		}
		seen[point.ID] = struct{}{}
		points = append(points, &point)
	}

	m.update(func([]*domain.RoutePoint) []*domain.RoutePoint { return points })
	m.initialized.Store(true)
	m.Notify(ActionInit, nil)

	return nil
}

// AddNewRoutePoint creates the point on the service and appends the stored
// version to the collection.
func (m *RouteModel) AddNewRoutePoint(
	ctx context.Context,
	action Action,
	point domain.RoutePoint,
) (_ *domain.RoutePoint, err error) {
	defer obs.Time(ctx, "route.AddNewRoutePoint")(&err)

	created, err := m.api.CreateRoutePoint(ctx, dto.AdaptRoutePointToServer(point))
	if err != nil {
		return nil, newError(ErrAdd, err)
	}

	added := dto.AdaptRoutePointToModel(created)
	if added.ID == "" {
		return nil, newError(ErrAdd, errors.New("add route point: service returned a point without id"))
	}

	duplicate := false
	m.update(func(current []*domain.RoutePoint) []*domain.RoutePoint {
		if indexByID(current, added.ID) >= 0 {
			duplicate = true
			return current
		}

		next := make([]*domain.RoutePoint, len(current), len(current)+1)
		copy(next, current)
		return append(next, &added)
	})
	if duplicate {
		return nil, newError(ErrAdd, fmt.Errorf("add route point: id %q already present", added.ID))
	}

	m.Notify(action, &added)
	return &added, nil
}

// UpdateRoutePoint sends the point to the service and swaps the stored version
// in place of the element with the same ID.
func (m *RouteModel) UpdateRoutePoint(
	ctx context.Context,
	action Action,
	point domain.RoutePoint,
) (_ *domain.RoutePoint, err error) {
	defer obs.Time(ctx, "route.UpdateRoutePoint")(&err)

	unlock := m.guard.lock(point.ID)
	defer unlock()

	stored, err := m.api.UpdateRoutePoint(ctx, dto.AdaptRoutePointToServer(point))
	if err != nil {
		return nil, newError(ErrUpdate, err)
	}

	updated := dto.AdaptRoutePointToModel(stored)
	if updated.ID != point.ID {
		return nil, newError(ErrUpdate, fmt.Errorf("update route point: service returned id %q for %q", updated.ID, point.ID))
	}

	m.update(func(current []*domain.RoutePoint) []*domain.RoutePoint {
		return slicex.UpdateItemFunc(current, &updated, func(p *domain.RoutePoint) bool {
			return p.ID == point.ID
		})
	})

	m.Notify(action, &updated)
	return &updated, nil
}

// DeleteRoutePoint removes the point on the service, then from the collection.
// Observers receive the removed point.
func (m *RouteModel) DeleteRoutePoint(ctx context.Context, action Action, point domain.RoutePoint) (err error) {
	defer obs.Time(ctx, "route.DeleteRoutePoint")(&err)

	unlock := m.guard.lock(point.ID)
	defer unlock()

	if err := m.api.DeleteRoutePoint(ctx, dto.AdaptRoutePointToServer(point)); err != nil {
		return newError(ErrDelete, err)
	}

	removed := &point
	m.update(func(current []*domain.RoutePoint) []*domain.RoutePoint {
		if i := indexByID(current, point.ID); i >= 0 {
			removed = current[i]
		}
		return slicex.RemoveFunc(current, func(p *domain.RoutePoint) bool { return p.ID == point.ID })
	})

	m.Notify(action, removed)
	return nil
}

// RoutePointByID looks a point up by ID. A missing point is not an error.
func (m *RouteModel) RoutePointByID(id string) (*domain.RoutePoint, bool) {
	points := m.Value()
	if i := indexByID(points, id); i >= 0 {
		return points[i], true
	}
	return nil, false
}

// RoutePoints returns a copy of the current collection in arrival order.
func (m *RouteModel) RoutePoints() []*domain.RoutePoint {
	return slices.Clone(m.Value())
}

// FullRouteInfo aggregates the route in chronological order.
// It returns nil for an empty route.
func (m *RouteModel) FullRouteInfo() *domain.FullRouteInfo {
	sorted := sorting.ByType[sorting.Day](m.Value())
	if len(sorted) == 0 {
		return nil
	}

	info := &domain.FullRouteInfo{
		RouteDateFrom:  sorted[0].DateFrom,
		RouteDateTo:    sorted[len(sorted)-1].DateTo,
		DestinationIDs: []string{},
		Offers:         []string{},
	}

	seen := make(map[string]struct{}, len(sorted))
	for _, p := range sorted {
		info.TotalBasePrice += p.BasePrice
		info.Offers = append(info.Offers, p.Offers...)

		if _, ok := seen[p.Destination]; !ok {
			seen[p.Destination] = struct{}{}
			info.DestinationIDs = append(info.DestinationIDs, p.Destination)
		}
	}

	return info
}

// RoutesCountByFilters counts the points each predicate selects at ref.
// The result has exactly the keys of preds; a nil predicate or result counts 0.
func (m *RouteModel) RoutesCountByFilters(preds map[filters.Type]filters.Predicate, ref time.Time) map[filters.Type]int {
	points := m.Value()

	counts := make(map[filters.Type]int, len(preds))
	for name, pred := range preds {
		if pred == nil {
			counts[name] = 0
			continue
		}
		counts[name] = len(pred(ref, slices.Clone(points)))
	}

	return counts
}

func indexByID(points []*domain.RoutePoint, id string) int {
	return slices.IndexFunc(points, func(p *domain.RoutePoint) bool { return p.ID == id })
}
