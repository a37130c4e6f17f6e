package navshell

import (
	"context"
	"testing"
	"time"

	"ridetrail/internal/remote"
	"ridetrail/internal/session"

	"github.com/stretchr/testify/require"
)

type fakeRemote struct{}

func (fakeRemote) SignInWithPassword(context.Context, string, string) (remote.AuthResult, error) {
	return remote.AuthResult{
		Session: &remote.Session{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer"},
		User:    &remote.User{ID: "u1", Email: "rider@example.com"},
	}, nil
}

func (f fakeRemote) SignUp(ctx context.Context, email, password string) (remote.AuthResult, error) {
	return f.SignInWithPassword(ctx, email, password)
}

func (fakeRemote) SignOut(context.Context, string) error { return nil }

func (fakeRemote) InsertRide(context.Context, string, remote.Ride) (remote.Ride, error) {
	return remote.Ride{}, nil
}

func (fakeRemote) ListRides(context.Context, string, string) ([]remote.Ride, error) {
	return nil, nil
}

func (fakeRemote) GetRide(context.Context, string, string) (*remote.Ride, error) {
	return nil, nil
}

func newShell(t *testing.T) (*Shell, *session.Store) {
	t.Helper()
	store := session.NewStore(fakeRemote{}, t.TempDir())
	return New(store), store
}

func TestCurrentWhileRestoring(t *testing.T) {
	shell, _ := newShell(t)

	require.Equal(t, ScreenSetNone, shell.Current())
	require.Nil(t, shell.Screens())
}

func TestCurrentWithoutSession(t *testing.T) {
	shell, store := newShell(t)
	store.Restore()

	require.Equal(t, ScreenSetUnauthenticated, shell.Current())
	require.Equal(t, []string{ScreenLogin, ScreenSignup}, shell.Screens())
}

func TestCurrentWithSession(t *testing.T) {
	shell, store := newShell(t)
	store.Restore()
	require.NoError(t, store.SignIn(context.Background(), "rider@example.com", "pw"))

	require.Equal(t, ScreenSetAuthenticated, shell.Current())
	require.Equal(t, []string{ScreenDashboard, ScreenRideDetail}, shell.Screens())
}

func TestSignOutFallsBackToUnauthenticated(t *testing.T) {
	shell, store := newShell(t)
	store.Restore()
	require.NoError(t, store.SignIn(context.Background(), "rider@example.com", "pw"))
	require.NoError(t, store.SignOut(context.Background()))

	require.Equal(t, ScreenSetUnauthenticated, shell.Current())
}

func TestWatchFollowsSessionChanges(t *testing.T) {
	shell, store := newShell(t)
	store.Restore()

	sets := make(chan ScreenSet, 8)
	go shell.Watch(func(s ScreenSet) { sets <- s })

	require.Equal(t, ScreenSetUnauthenticated, waitFor(t, sets))

	require.NoError(t, store.SignIn(context.Background(), "rider@example.com", "pw"))
	require.Equal(t, ScreenSetAuthenticated, waitFor(t, sets))

	require.NoError(t, store.SignOut(context.Background()))
	require.Equal(t, ScreenSetUnauthenticated, waitFor(t, sets))
}

func waitFor(t *testing.T, sets <-chan ScreenSet) ScreenSet {
	t.Helper()
	select {
	case s := <-sets:
		return s
	case <-time.After(time.Second):
		t.Fatal("no screen set change observed")
		return ScreenSetNone
	}
}
