package ride

import (
	"encoding/json"
	"time"
)

// Ride mirrors a row in the rides table. RouteData is stored verbatim as
// JSONB; the server never reprojects or edits the geometry.
type Ride struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id" validate:"required,uuid4"`
	Title     string          `json:"title,omitempty"`
	StartTime time.Time       `json:"start_time" validate:"required"`
	EndTime   time.Time       `json:"end_time" validate:"required"`
	Distance  float64         `json:"distance"`
	RouteData json.RawMessage `json:"route_data" validate:"required"`
	IsLive    bool            `json:"is_live"`
	CreatedAt time.Time       `json:"created_at"`
}

// LivePoint is a transient position update fanned out to watchers of a live
// ride. It is never persisted.
type LivePoint struct {
	RideID    string  `json:"ride_id"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Timestamp int64   `json:"timestamp" validate:"required"`
}
