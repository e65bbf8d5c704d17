package dto

import "trip-planner/internal/domain"

// AdaptRoutePointToModel converts the wire shape into the domain model.
// Times are normalized to UTC and a missing offer list becomes empty.
func AdaptRoutePointToModel(p RoutePoint) domain.RoutePoint {
	return domain.RoutePoint{
		ID:          p.ID,
		Type:        domain.PointType(p.Type),
		Destination: p.Destination,
		DateFrom:    p.DateFrom.UTC(),
		DateTo:      p.DateTo.UTC(),
		BasePrice:   p.BasePrice,
		Offers:      cloneOffers(p.Offers),
		IsFavorite:  p.IsFavorite,
	}
}

// AdaptRoutePointToServer converts a domain route point into the wire shape.
func AdaptRoutePointToServer(p domain.RoutePoint) RoutePoint {
	return RoutePoint{
		ID:          p.ID,
		Type:        string(p.Type),
		Destination: p.Destination,
		DateFrom:    p.DateFrom.UTC(),
		DateTo:      p.DateTo.UTC(),
		BasePrice:   p.BasePrice,
		Offers:      cloneOffers(p.Offers),
		IsFavorite:  p.IsFavorite,
	}
}

func cloneOffers(offers []string) []string {
	out := make([]string, len(offers))
	copy(out, offers)
	return out
}
