// Package navshell decides which screen set the client presents from the
// session state alone. There is no manual navigation into the wrong set: the
// active set follows the session, re-evaluated on every change signal.
package navshell

import "ridetrail/internal/session"

// ScreenSet is the group of screens currently reachable.
type ScreenSet int

const (
	// ScreenSetNone is shown while the persisted session is still being
	// restored.
	ScreenSetNone ScreenSet = iota
	ScreenSetUnauthenticated
	ScreenSetAuthenticated
)

func (s ScreenSet) String() string {
	switch s {
	case ScreenSetUnauthenticated:
		return "unauthenticated"
	case ScreenSetAuthenticated:
		return "authenticated"
	default:
		return "none"
	}
}

// Screens per set.
const (
	ScreenLogin      = "login"
	ScreenSignup     = "signup"
	ScreenDashboard  = "dashboard"
	ScreenRideDetail = "ride-detail"
)

type Shell struct {
	session *session.Store
}

func New(store *session.Store) *Shell {
	return &Shell{session: store}
}

// Current evaluates the active screen set from the session store.
func (s *Shell) Current() ScreenSet {
	if s.session.Restoring() {
		return ScreenSetNone
	}
	if s.session.User() != nil {
		return ScreenSetAuthenticated
	}
	return ScreenSetUnauthenticated
}

// Screens lists the screens reachable in the active set.
func (s *Shell) Screens() []string {
	switch s.Current() {
	case ScreenSetAuthenticated:
		return []string{ScreenDashboard, ScreenRideDetail}
	case ScreenSetUnauthenticated:
		return []string{ScreenLogin, ScreenSignup}
	default:
		return nil
	}
}

// Watch re-evaluates the screen set on every session change and calls fn when
// it moves. It returns when the session store's signal channel is closed or,
// practically, never; run it on its own goroutine.
func (s *Shell) Watch(fn func(ScreenSet)) {
	signals := s.session.Subscribe()
	current := s.Current()
	fn(current)
	for range signals {
		next := s.Current()
		if next != current {
			current = next
			fn(current)
		}
	}
}
