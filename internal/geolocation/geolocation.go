// Package geolocation abstracts continuous position capture behind a watch
// interface, with capability requests modeled separately per platform policy.
package geolocation

import (
	"context"
	"errors"
	"time"
)

// Position is a single captured sample. Timestamp is epoch milliseconds.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// Options selects an accuracy profile for a watch.
type Options struct {
	EnableHighAccuracy bool
	// DistanceFilter is the minimum movement in meters before a new sample
	// is delivered.
	DistanceFilter float64
	Interval       time.Duration
	FastestInterval time.Duration
	// ShowsBackgroundIndicator marks the watch as background-visible on
	// platforms that surface an indicator for it.
	ShowsBackgroundIndicator bool
	ForceRequest             bool
}

// Handle identifies an open watch.
type Handle int

// Provider starts and stops continuous position capture. Samples are
// delivered asynchronously on an internal goroutine; delivery order is
// trusted as arrival order. ClearWatch unregisters the callback immediately;
// samples already in flight may still be delivered.
type Provider interface {
	Watch(onPosition func(Position), onError func(error), opts Options) (Handle, error)
	ClearWatch(Handle)
}

var ErrPermissionDenied = errors.New("location permission denied")

type Capability string

const (
	CapabilityPrecise     Capability = "precise"
	CapabilityApproximate Capability = "approximate"
	CapabilityBackground  Capability = "background"
)

// Granter answers capability requests; the platform (or a test) decides.
type Granter interface {
	Request(ctx context.Context, caps ...Capability) (map[Capability]bool, error)
}

// Notifier surfaces user-visible notices.
type Notifier interface {
	Notify(title, message string)
}

// Capabilities is the platform-conditional permission policy, selected once
// at startup.
type Capabilities interface {
	// Request obtains the location capabilities needed for ride capture.
	// Returns ErrPermissionDenied when the grant is refused.
	Request(ctx context.Context) error
	// SupportsBackgroundGrant reports whether the platform has a distinct
	// background-location capability. It also gates capture-profile
	// switching on lifecycle transitions.
	SupportsBackgroundGrant() bool
}
