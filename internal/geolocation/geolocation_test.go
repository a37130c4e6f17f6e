package geolocation

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeGranter struct {
	granted map[Capability]bool
	err     error
	calls   [][]Capability
}

func (g *fakeGranter) Request(_ context.Context, caps ...Capability) (map[Capability]bool, error) {
	g.calls = append(g.calls, caps)
	return g.granted, g.err
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (n *recordingNotifier) Notify(title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, title)
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.notices))
	copy(out, n.notices)
	return out
}

func TestStrictCapabilitiesJointGrant(t *testing.T) {
	granter := &fakeGranter{granted: map[Capability]bool{
		CapabilityPrecise:     true,
		CapabilityApproximate: true,
		CapabilityBackground:  true,
	}}
	caps := &StrictCapabilities{Granter: granter}

	require.NoError(t, caps.Request(context.Background()))
	require.True(t, caps.SupportsBackgroundGrant())

	// all three capabilities requested together, once
	require.Len(t, granter.calls, 1)
	require.Len(t, granter.calls[0], 3)
}

func TestStrictCapabilitiesPartialDenial(t *testing.T) {
	granter := &fakeGranter{granted: map[Capability]bool{
		CapabilityPrecise:     true,
		CapabilityApproximate: true,
		CapabilityBackground:  false,
	}}
	caps := &StrictCapabilities{Granter: granter}

	require.ErrorIs(t, caps.Request(context.Background()), ErrPermissionDenied)
}

func TestAdvisoryCapabilitiesNeverBlocks(t *testing.T) {
	notifier := &recordingNotifier{}
	caps := &AdvisoryCapabilities{Notifier: notifier}

	require.NoError(t, caps.Request(context.Background()))
	require.False(t, caps.SupportsBackgroundGrant())
	require.Len(t, notifier.titles(), 1)
}

func TestReplayProviderDeliversInOrder(t *testing.T) {
	samples := []Position{
		{Latitude: -6.2, Longitude: 106.8, Timestamp: 1},
		{Latitude: -6.21, Longitude: 106.81, Timestamp: 2},
		{Latitude: -6.22, Longitude: 106.82, Timestamp: 3},
	}
	provider := NewReplayProvider(samples, 0)

	var mu sync.Mutex
	var got []Position
	done := make(chan struct{})

	handle, err := provider.Watch(func(p Position) {
		mu.Lock()
		got = append(got, p)
		if len(got) == len(samples) {
			close(done)
		}
		mu.Unlock()
	}, func(error) {}, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, provider.Active())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for samples")
	}

	provider.ClearWatch(handle)
	require.Equal(t, 0, provider.Active())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, samples, got)
}

func TestReplayProviderClearStopsDelivery(t *testing.T) {
	samples := make([]Position, 100)
	provider := NewReplayProvider(samples, 10*time.Millisecond)

	var count int
	var mu sync.Mutex
	handle, err := provider.Watch(func(Position) {
		mu.Lock()
		count++
		mu.Unlock()
	}, func(error) {}, Options{})
	require.NoError(t, err)

	provider.ClearWatch(handle)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Less(t, count, 100)
}

func TestGPSDProviderParsesTPV(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 256)
		_, _ = conn.Read(buf) // watch command

		lines := []string{
			`{"class":"VERSION","release":"3.25"}`,
			`{"class":"TPV","mode":3,"lat":-6.2,"lon":106.8,"time":"2026-09-01T08:00:00.000Z"}`,
			`not json`,
			`{"class":"TPV","mode":3,"lat":-6.3,"lon":106.9,"time":"2026-09-01T08:00:05.000Z"}`,
		}
		for _, line := range lines {
			_, _ = conn.Write([]byte(line + "\n"))
		}
	}()

	provider := NewGPSDProvider(ln.Addr().String())

	var mu sync.Mutex
	var got []Position
	var errs []error
	done := make(chan struct{})

	handle, err := provider.Watch(func(p Position) {
		mu.Lock()
		got = append(got, p)
		if len(got) == 2 {
			close(done)
		}
		mu.Unlock()
	}, func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}, Options{})
	require.NoError(t, err)
	defer provider.ClearWatch(handle)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for TPV samples")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, -6.2, got[0].Latitude)
	require.Equal(t, 106.8, got[0].Longitude)
	require.NotZero(t, got[0].Timestamp)
	require.Equal(t, -6.3, got[1].Latitude)
	// malformed line surfaced as a capture error, stream kept going
	require.NotEmpty(t, errs)
}

func TestGPSDProviderDialError(t *testing.T) {
	provider := NewGPSDProvider("127.0.0.1:1")
	provider.DialTimeout = 100 * time.Millisecond

	_, err := provider.Watch(func(Position) {}, func(error) {}, Options{})
	require.Error(t, err)
}

func TestGPSDProviderDistanceFilter(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 256)
		_, _ = conn.Read(buf)

		// second report moves ~1m, below a 10m filter; third moves far enough
		lines := []string{
			`{"class":"TPV","mode":3,"lat":-6.2000,"lon":106.8000,"time":"2026-09-01T08:00:00.000Z"}`,
			`{"class":"TPV","mode":3,"lat":-6.20001,"lon":106.8000,"time":"2026-09-01T08:00:01.000Z"}`,
			`{"class":"TPV","mode":3,"lat":-6.2100,"lon":106.8100,"time":"2026-09-01T08:00:02.000Z"}`,
		}
		for _, line := range lines {
			_, _ = conn.Write([]byte(line + "\n"))
		}
	}()

	provider := NewGPSDProvider(ln.Addr().String())

	var mu sync.Mutex
	var got []Position
	done := make(chan struct{})

	handle, err := provider.Watch(func(p Position) {
		mu.Lock()
		got = append(got, p)
		if len(got) == 2 {
			close(done)
		}
		mu.Unlock()
	}, func(error) {}, Options{DistanceFilter: 10})
	require.NoError(t, err)
	defer provider.ClearWatch(handle)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for filtered samples")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	require.Equal(t, -6.21, got[1].Latitude)
}
