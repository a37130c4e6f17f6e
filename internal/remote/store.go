// Package remote defines the ride store contract the client consumes and an
// HTTP implementation of it.
package remote

import (
	"context"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session carries the token material for an authenticated user. The user is
// embedded so the whole session can be persisted as one object.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user,omitempty"`
}

// AuthResult is the {session, user} pair returned by sign-in and sign-up.
// Either field may be nil when the store misbehaves; callers must check.
type AuthResult struct {
	Session *Session `json:"session"`
	User    *User    `json:"user"`
}

type Geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// RouteData is a GeoJSON-like Feature holding a LineString of [lon, lat]
// pairs.
type RouteData struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

type Ride struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Distance  float64   `json:"distance"`
	RouteData RouteData `json:"route_data"`
	IsLive    bool      `json:"is_live"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// APIError is a rejection from the store, carrying its message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Store is the remote authentication and ride persistence service.
type Store interface {
	SignInWithPassword(ctx context.Context, email, password string) (AuthResult, error)
	SignUp(ctx context.Context, email, password string) (AuthResult, error)
	SignOut(ctx context.Context, accessToken string) error

	InsertRide(ctx context.Context, accessToken string, ride Ride) (Ride, error)
	ListRides(ctx context.Context, accessToken, userID string) ([]Ride, error)
	// GetRide returns (nil, nil) when no ride with the id exists.
	GetRide(ctx context.Context, accessToken, id string) (*Ride, error)
}
