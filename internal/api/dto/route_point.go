package dto

import "time"

// RoutePoint is the wire representation of a route point exchanged with the
// trip API. Field names follow the service's snake_case JSON contract.
type RoutePoint struct {
	ID          string    `json:"id,omitempty"`
	Type        string    `json:"type"`
	Destination string    `json:"destination"`
	DateFrom    time.Time `json:"date_from"`
	DateTo      time.Time `json:"date_to"`
	BasePrice   int       `json:"base_price"`
	Offers      []string  `json:"offers"`
	IsFavorite  bool      `json:"is_favorite"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
