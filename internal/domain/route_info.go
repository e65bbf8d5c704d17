package domain

import "time"

// Trip-wide aggregate computed from the chronologically sorted collection.
// It is derived data and never stored.
type FullRouteInfo struct {
	RouteDateFrom  time.Time
	RouteDateTo    time.Time
	TotalBasePrice int
	DestinationIDs []string
	Offers         []string
}
