// Package recorder captures a position trail for one ride and submits it as
// line-string geometry when the ride ends.
package recorder

import (
	"context"
	"errors"
	"sync"
	"time"

	"ridetrail/internal/geolocation"
	"ridetrail/internal/remote"
)

type State int

const (
	StateIdle State = iota
	StateRecordingForeground
	StateRecordingBackground
	StateSubmitting
)

type AppState string

const (
	AppStateActive     AppState = "active"
	AppStateBackground AppState = "background"
)

var (
	ErrAlreadyRecording = errors.New("a ride is already being recorded")
	ErrNotRecording     = errors.New("no ride is being recorded")
)

// Credentials supplies the current identity for ride submission. The session
// store satisfies it.
type Credentials interface {
	AccessToken() string
	UserID() string
}

type Recorder struct {
	provider geolocation.Provider
	caps     geolocation.Capabilities
	store    remote.Store
	creds    Credentials
	notifier geolocation.Notifier
	now      func() time.Time

	mu       sync.Mutex
	state    State
	handle   geolocation.Handle
	watching bool
	trail    []geolocation.Position
}

func New(provider geolocation.Provider, caps geolocation.Capabilities, store remote.Store, creds Credentials, notifier geolocation.Notifier) *Recorder {
	return &Recorder{
		provider: provider,
		caps:     caps,
		store:    store,
		creds:    creds,
		notifier: notifier,
		now:      time.Now,
	}
}

// Start clears any previous trail, obtains location capabilities and opens
// the capture stream at the foreground accuracy profile. On permission
// denial the recorder stays Idle and a notice is surfaced.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle {
		return ErrAlreadyRecording
	}
	r.trail = nil

	if err := r.caps.Request(ctx); err != nil {
		r.notifier.Notify("Permission Denied", "Location permissions are required to track your ride.")
		return err
	}

	if err := r.openWatchLocked(foregroundProfile(r.caps.SupportsBackgroundGrant())); err != nil {
		r.notifier.Notify("Location Error", err.Error())
		return err
	}
	r.state = StateRecordingForeground
	return nil
}

// AppStateChange reacts to application lifecycle transitions while a ride is
// being recorded. On the profile-switching platform capture is restarted at
// the matching accuracy profile; the running watch is always stopped before
// the next one opens. Elsewhere the transition only surfaces a notice.
func (r *Recorder) AppStateChange(next AppState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecordingForeground && r.state != StateRecordingBackground {
		return
	}

	if !r.caps.SupportsBackgroundGrant() {
		switch next {
		case AppStateBackground:
			r.state = StateRecordingBackground
			r.notifier.Notify("Background Tracking",
				"Your ride is being tracked in the background. For best results, keep the app open.")
		case AppStateActive:
			r.state = StateRecordingForeground
		}
		return
	}

	switch next {
	case AppStateBackground:
		r.stopWatchLocked()
		if err := r.openWatchLocked(backgroundProfile()); err != nil {
			r.notifier.Notify("Location Error", err.Error())
		}
		r.state = StateRecordingBackground
	case AppStateActive:
		r.stopWatchLocked()
		if err := r.openWatchLocked(foregroundProfile(true)); err != nil {
			r.notifier.Notify("Location Error", err.Error())
		}
		r.state = StateRecordingForeground
	}
}

// End stops capture, packages the trail as line-string geometry and submits
// the ride. The trail is discarded whether or not the submit succeeds.
func (r *Recorder) End(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.state != StateRecordingForeground && r.state != StateRecordingBackground {
		r.mu.Unlock()
		return "", ErrNotRecording
	}
	r.stopWatchLocked()
	r.state = StateSubmitting
	trail := r.trail
	r.trail = nil
	r.mu.Unlock()

	ride := r.buildRide(trail)

	inserted, err := r.store.InsertRide(ctx, r.creds.AccessToken(), ride)

	r.mu.Lock()
	r.state = StateIdle
	r.mu.Unlock()

	if err != nil {
		r.notifier.Notify("Error saving ride", err.Error())
		return "", err
	}
	return inserted.ID, nil
}

func (r *Recorder) buildRide(trail []geolocation.Position) remote.Ride {
	coords := make([][]float64, 0, len(trail))
	for _, p := range trail {
		coords = append(coords, []float64{p.Longitude, p.Latitude})
	}

	start := r.now()
	end := start
	if len(trail) > 0 {
		start = time.UnixMilli(trail[0].Timestamp)
		end = time.UnixMilli(trail[len(trail)-1].Timestamp)
	}

	return remote.Ride{
		UserID:    r.creds.UserID(),
		StartTime: start,
		EndTime:   end,
		Distance:  0,
		RouteData: remote.RouteData{
			Type:       "Feature",
			Properties: map[string]any{},
			Geometry: remote.Geometry{
				Type:        "LineString",
				Coordinates: coords,
			},
		},
		IsLive: false,
	}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// TrailLen reports how many samples have been captured so far this ride.
func (r *Recorder) TrailLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trail)
}

func (r *Recorder) onPosition(p geolocation.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecordingForeground && r.state != StateRecordingBackground {
		return
	}
	r.trail = append(r.trail, p)
}

func (r *Recorder) onCaptureError(err error) {
	// capture failures never stop an in-progress recording
	r.notifier.Notify("Location Error", err.Error())
}

func (r *Recorder) openWatchLocked(opts geolocation.Options) error {
	handle, err := r.provider.Watch(r.onPosition, r.onCaptureError, opts)
	if err != nil {
		return err
	}
	r.handle = handle
	r.watching = true
	return nil
}

func (r *Recorder) stopWatchLocked() {
	if r.watching {
		r.provider.ClearWatch(r.handle)
		r.watching = false
	}
}
