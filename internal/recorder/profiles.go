package recorder

import (
	"time"

	"ridetrail/internal/geolocation"
)

// foregroundProfile is the high-accuracy capture profile. The platform with
// capture-profile switching samples tighter than the advisory one.
func foregroundProfile(profileSwitching bool) geolocation.Options {
	if profileSwitching {
		return geolocation.Options{
			EnableHighAccuracy: true,
			DistanceFilter:     2,
			Interval:           2000 * time.Millisecond,
			FastestInterval:    1000 * time.Millisecond,
			ForceRequest:       true,
		}
	}
	return geolocation.Options{
		EnableHighAccuracy:       true,
		DistanceFilter:           5,
		Interval:                 3000 * time.Millisecond,
		FastestInterval:          2000 * time.Millisecond,
		ShowsBackgroundIndicator: true,
		ForceRequest:             true,
	}
}

// backgroundProfile trades accuracy for battery while the app is backgrounded.
func backgroundProfile() geolocation.Options {
	return geolocation.Options{
		EnableHighAccuracy:       false,
		DistanceFilter:           10,
		Interval:                 10000 * time.Millisecond,
		FastestInterval:          5000 * time.Millisecond,
		ShowsBackgroundIndicator: true,
		ForceRequest:             true,
	}
}
