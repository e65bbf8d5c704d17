// Package filters provides the predicates used to count route points for the
// filter badges. A predicate receives the reference date and the whole
// collection and returns the matching subset; a nil result counts as zero.
package filters

import (
	"time"
	"trip-planner/internal/domain"
)

type Type string

const (
	Everything Type = "everything"
	Future     Type = "future"
	Present    Type = "present"
	Past       Type = "past"
)

const Default = Everything

type Predicate func(ref time.Time, points []*domain.RoutePoint) []*domain.RoutePoint

// ByType is the built-in filter strategy map.
var ByType = map[Type]Predicate{
	Everything: everything,
	Future:     Where(func(ref time.Time, p *domain.RoutePoint) bool { return p.DateFrom.After(ref) }),
	Present: Where(func(ref time.Time, p *domain.RoutePoint) bool {
		return !p.DateFrom.After(ref) && !p.DateTo.Before(ref)
	}),
	Past: Where(func(ref time.Time, p *domain.RoutePoint) bool { return p.DateTo.Before(ref) }),
}

// Builtin returns a fresh copy of ByType that callers may extend.
func Builtin() map[Type]Predicate {
	out := make(map[Type]Predicate, len(ByType))
	for k, v := range ByType {
		out[k] = v
	}
	return out
}

// Where lifts a per-point test into a Predicate.
func Where(keep func(ref time.Time, p *domain.RoutePoint) bool) Predicate {
	return func(ref time.Time, points []*domain.RoutePoint) []*domain.RoutePoint {
		var out []*domain.RoutePoint
		for _, p := range points {
			if keep(ref, p) {
				out = append(out, p)
			}
		}
		return out
	}
}

func everything(_ time.Time, points []*domain.RoutePoint) []*domain.RoutePoint {
	return points
}
