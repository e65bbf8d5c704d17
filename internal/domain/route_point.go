package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidRoutePoint = errors.New("invalid route point")

// Kind of activity a route point describes.
type PointType string

const (
	PointTaxi        PointType = "taxi"
	PointBus         PointType = "bus"
	PointTrain       PointType = "train"
	PointShip        PointType = "ship"
	PointDrive       PointType = "drive"
	PointFlight      PointType = "flight"
	PointCheckIn     PointType = "check-in"
	PointSightseeing PointType = "sightseeing"
	PointRestaurant  PointType = "restaurant"
)

var pointTypes = []PointType{
	PointTaxi,
	PointBus,
	PointTrain,
	PointShip,
	PointDrive,
	PointFlight,
	PointCheckIn,
	PointSightseeing,
	PointRestaurant,
}

// PointTypes returns the closed set of known point types.
func PointTypes() []PointType {
	out := make([]PointType, len(pointTypes))
	copy(out, pointTypes)
	return out
}

func (t PointType) Valid() bool {
	for _, known := range pointTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Represents a single leg of a trip itinerary.
// Destination and Offers reference entities owned elsewhere; a RoutePoint only
// carries their identifiers. The ID is assigned by the remote service.
type RoutePoint struct {
	ID          string
	Type        PointType
	Destination string
	DateFrom    time.Time
	DateTo      time.Time
	BasePrice   int
	Offers      []string
	IsFavorite  bool
}

// Duration of the leg.
func (p RoutePoint) Duration() time.Duration {
	return p.DateTo.Sub(p.DateFrom)
}

// Validate checks the invariants the remote service enforces before storing a point.
func (p RoutePoint) Validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("validate route point: unknown type %q: %w", p.Type, ErrInvalidRoutePoint)
	}

	if strings.TrimSpace(p.Destination) == "" {
		return fmt.Errorf("validate route point: destination must be non-empty: %w", ErrInvalidRoutePoint)
	}

	if p.BasePrice < 0 {
		return fmt.Errorf("validate route point: base price %d is negative: %w", p.BasePrice, ErrInvalidRoutePoint)
	}

	if p.DateFrom.IsZero() || p.DateTo.IsZero() {
		return fmt.Errorf("validate route point: dates must be set: %w", ErrInvalidRoutePoint)
	}

	if p.DateFrom.After(p.DateTo) {
		return fmt.Errorf("validate route point: date_from %s is after date_to %s: %w",
			p.DateFrom.Format(time.RFC3339), p.DateTo.Format(time.RFC3339), ErrInvalidRoutePoint)
	}

	return nil
}
