// Package session holds the authenticated user's identity and token material,
// and keeps it durable across process restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"ridetrail/internal/remote"
)

const sessionFileName = "session.json"

var (
	// ErrAuthentication is a store rejection of the supplied credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrInvalidResponse means the store reported success without the
	// expected session and user objects.
	ErrInvalidResponse = errors.New("invalid response from server")
)

type Op int

const (
	OpRestore Op = iota
	OpSignIn
	OpSignUp
	OpSignOut
)

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

// Store is the session context object. It is created once at launch and
// injected into the components that need identity or tokens.
//
// The mutex protects in-memory state only; overlapping remote operations may
// still interleave their persistence writes. That limitation is accepted, not
// coordinated away.
type Store struct {
	remote remote.Store
	path   string

	mu        sync.Mutex
	session   *remote.Session
	user      *remote.User
	restoring bool
	status    map[Op]Status
	subs      []chan struct{}
}

func NewStore(store remote.Store, stateDir string) *Store {
	return &Store{
		remote:    store,
		path:      filepath.Join(stateDir, sessionFileName),
		restoring: true,
		status:    map[Op]Status{},
	}
}

// Restore reads the persisted session, if any. It never touches the network
// and always completes, clearing the restoring flag.
func (s *Store) Restore() {
	s.setStatus(OpRestore, StatusPending)

	data, err := os.ReadFile(s.path)

	s.mu.Lock()
	if err == nil {
		var sess remote.Session
		if jsonErr := json.Unmarshal(data, &sess); jsonErr == nil {
			s.session = &sess
			s.user = sess.User
		}
	}
	s.restoring = false
	s.status[OpRestore] = StatusSuccess
	s.mu.Unlock()

	s.notify()
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, OpSignIn, email, password, s.remote.SignInWithPassword, "login failed")
}

func (s *Store) SignUp(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, OpSignUp, email, password, s.remote.SignUp, "signup failed")
}

func (s *Store) authenticate(ctx context.Context, op Op, email, password string,
	call func(context.Context, string, string) (remote.AuthResult, error), fallback string) error {

	s.setStatus(op, StatusPending)

	result, err := call(ctx, email, password)
	if err != nil {
		s.setStatus(op, StatusFailure)
		msg := err.Error()
		if msg == "" {
			msg = fallback
		}
		return fmt.Errorf("%w: %s", ErrAuthentication, msg)
	}
	if result.Session == nil || result.User == nil {
		s.setStatus(op, StatusFailure)
		return ErrInvalidResponse
	}

	result.Session.User = result.User
	if err := s.persist(result.Session); err != nil {
		log.Printf("session persist error: %v", err)
	}

	s.mu.Lock()
	s.session = result.Session
	s.user = result.User
	s.status[op] = StatusSuccess
	s.mu.Unlock()

	s.notify()
	return nil
}

// SignOut clears in-memory and persisted session state unconditionally; the
// remote sign-out call is attempted first but its outcome is ignored.
func (s *Store) SignOut(ctx context.Context) error {
	s.setStatus(OpSignOut, StatusPending)

	token := s.AccessToken()
	if err := s.remote.SignOut(ctx, token); err != nil {
		log.Printf("remote sign-out error: %v", err)
	}

	s.mu.Lock()
	s.session = nil
	s.user = nil
	s.status[OpSignOut] = StatusSuccess
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		log.Printf("session remove error: %v", err)
	}

	s.notify()
	return nil
}

func (s *Store) User() *remote.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) Session() *remote.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Store) Restoring() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restoring
}

func (s *Store) Status(op Op) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status[op]
}

func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.AccessToken
}

func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Subscribe returns a channel that receives a signal whenever the session
// identity may have changed.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]chan struct{}, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) setStatus(op Op, status Status) {
	s.mu.Lock()
	s.status[op] = status
	s.mu.Unlock()
}

func (s *Store) persist(sess *remote.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
