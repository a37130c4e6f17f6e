// Package review loads a saved ride and extracts its drawable route from the
// stored geometry.
package review

import (
	"context"
	"log"
	"math"

	"ridetrail/internal/remote"
)

// NewRideID marks a ride that has not been saved yet. Loading it never
// touches the store.
const NewRideID = "new"

// Coordinate is a drawable map point.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Load fetches the ride behind rideID. A missing ride and a failed load both
// come back as nil.
func Load(ctx context.Context, store remote.Store, accessToken, rideID string) *remote.Ride {
	if rideID == NewRideID {
		return nil
	}
	ride, err := store.GetRide(ctx, accessToken, rideID)
	if err != nil {
		log.Printf("review: load ride %s: %v", rideID, err)
		return nil
	}
	return ride
}

// Coordinates converts the ride's stored [lon, lat] geometry into map points.
// Entries that are not finite 2-tuples are dropped; everything else keeps its
// stored order.
func Coordinates(ride *remote.Ride) []Coordinate {
	if ride == nil {
		return nil
	}
	raw := ride.RouteData.Geometry.Coordinates
	out := make([]Coordinate, 0, len(raw))
	for _, pair := range raw {
		if len(pair) != 2 {
			continue
		}
		lng, lat := pair[0], pair[1]
		if !finite(lng) || !finite(lat) {
			continue
		}
		out = append(out, Coordinate{Latitude: lat, Longitude: lng})
	}
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
