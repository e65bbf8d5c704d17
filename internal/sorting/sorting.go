// Package sorting maps sort keys to orderings over route points.
// Every ordering is stable and returns a sorted copy; the input slice is never
// reordered.
package sorting

import (
	"cmp"
	"slices"
	"strings"
	"trip-planner/internal/domain"
)

type Type string

const (
	Day    Type = "day"
	Event  Type = "event"
	Time   Type = "time"
	Price  Type = "price"
	Offers Type = "offers"
)

const Default = Day

type Func func(points []*domain.RoutePoint) []*domain.RoutePoint

// ByType is the sort strategy map.
var ByType = map[Type]Func{
	Day:    byDay,
	Event:  byEvent,
	Time:   byTime,
	Price:  byPrice,
	Offers: byOffers,
}

// Parse resolves a sort key, ignoring case and surrounding whitespace.
func Parse(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	_, ok := ByType[t]
	return t, ok
}

func sortedCopy(points []*domain.RoutePoint, compare func(a, b *domain.RoutePoint) int) []*domain.RoutePoint {
	out := slices.Clone(points)
	slices.SortStableFunc(out, compare)
	return out
}

// Chronological by start time, earliest first.
func byDay(points []*domain.RoutePoint) []*domain.RoutePoint {
	return sortedCopy(points, func(a, b *domain.RoutePoint) int {
		return a.DateFrom.Compare(b.DateFrom)
	})
}

func byEvent(points []*domain.RoutePoint) []*domain.RoutePoint {
	return sortedCopy(points, func(a, b *domain.RoutePoint) int {
		return cmp.Compare(a.Type, b.Type)
	})
}

// Longest leg first.
func byTime(points []*domain.RoutePoint) []*domain.RoutePoint {
	return sortedCopy(points, func(a, b *domain.RoutePoint) int {
		return cmp.Compare(b.Duration(), a.Duration())
	})
}

// Most expensive first.
func byPrice(points []*domain.RoutePoint) []*domain.RoutePoint {
	return sortedCopy(points, func(a, b *domain.RoutePoint) int {
		return cmp.Compare(b.BasePrice, a.BasePrice)
	})
}

// Most selected offers first.
func byOffers(points []*domain.RoutePoint) []*domain.RoutePoint {
	return sortedCopy(points, func(a, b *domain.RoutePoint) int {
		return cmp.Compare(len(b.Offers), len(a.Offers))
	})
}
