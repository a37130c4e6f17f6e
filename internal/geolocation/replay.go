package geolocation

import (
	"sync"
	"time"
)

// ReplayProvider delivers a scripted sample sequence on a timer. It backs the
// tracker's demo mode and the recorder tests.
type ReplayProvider struct {
	Samples []Position
	// Tick overrides the watch interval for delivery pacing; zero means
	// deliver as fast as possible.
	Tick time.Duration

	mu      sync.Mutex
	next    Handle
	stops   map[Handle]chan struct{}
	history []WatchEvent
}

// WatchEvent records a watch lifecycle action in order, for inspection.
type WatchEvent struct {
	Action  string // "watch" or "clear"
	Handle  Handle
	Options Options
}

func NewReplayProvider(samples []Position, tick time.Duration) *ReplayProvider {
	return &ReplayProvider{
		Samples: samples,
		Tick:    tick,
		stops:   map[Handle]chan struct{}{},
	}
}

func (p *ReplayProvider) Watch(onPosition func(Position), onError func(error), opts Options) (Handle, error) {
	p.mu.Lock()
	p.next++
	handle := p.next
	stop := make(chan struct{})
	p.stops[handle] = stop
	p.history = append(p.history, WatchEvent{Action: "watch", Handle: handle, Options: opts})
	samples := p.Samples
	tick := p.Tick
	p.mu.Unlock()

	go func() {
		for _, sample := range samples {
			if tick > 0 {
				select {
				case <-stop:
					return
				case <-time.After(tick):
				}
			} else {
				select {
				case <-stop:
					return
				default:
				}
			}
			onPosition(sample)
		}
		<-stop
	}()

	return handle, nil
}

func (p *ReplayProvider) ClearWatch(handle Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if stop, ok := p.stops[handle]; ok {
		close(stop)
		delete(p.stops, handle)
		p.history = append(p.history, WatchEvent{Action: "clear", Handle: handle})
	}
}

// Active returns the number of currently open watches.
func (p *ReplayProvider) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stops)
}

// History returns the ordered watch/clear events seen so far.
func (p *ReplayProvider) History() []WatchEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]WatchEvent, len(p.history))
	copy(out, p.history)
	return out
}
