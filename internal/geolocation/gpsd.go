package geolocation

import (
	"bufio"
	"encoding/json"
	"net"
	"sync"
	"time"

	"ridetrail/internal/shared/geo"
)

const gpsdWatchCommand = `?WATCH={"enable":true,"json":true};` + "\n"

// GPSDProvider captures positions from a gpsd daemon's JSON watch stream.
// The distance filter and poll interval are applied client-side, since gpsd
// reports at the device's native rate.
type GPSDProvider struct {
	Addr string
	// DialTimeout bounds the initial connection; zero means 5s.
	DialTimeout time.Duration

	mu    sync.Mutex
	next  Handle
	conns map[Handle]net.Conn
}

// tpvReport is the subset of gpsd's TPV class the tracker needs.
type tpvReport struct {
	Class string  `json:"class"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Time  string  `json:"time"`
}

func NewGPSDProvider(addr string) *GPSDProvider {
	return &GPSDProvider{Addr: addr, conns: map[Handle]net.Conn{}}
}

func (p *GPSDProvider) Watch(onPosition func(Position), onError func(error), opts Options) (Handle, error) {
	timeout := p.DialTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	conn, err := net.DialTimeout("tcp", p.Addr, timeout)
	if err != nil {
		return 0, err
	}
	if _, err := conn.Write([]byte(gpsdWatchCommand)); err != nil {
		conn.Close()
		return 0, err
	}

	p.mu.Lock()
	p.next++
	handle := p.next
	p.conns[handle] = conn
	p.mu.Unlock()

	go p.readLoop(conn, onPosition, onError, opts)
	return handle, nil
}

func (p *GPSDProvider) ClearWatch(handle Handle) {
	p.mu.Lock()
	conn, ok := p.conns[handle]
	if ok {
		delete(p.conns, handle)
	}
	p.mu.Unlock()

	if ok {
		conn.Close()
	}
}

func (p *GPSDProvider) readLoop(conn net.Conn, onPosition func(Position), onError func(error), opts Options) {
	scanner := bufio.NewScanner(conn)

	var last *Position
	var lastDelivery time.Time

	for scanner.Scan() {
		var report tpvReport
		if err := json.Unmarshal(scanner.Bytes(), &report); err != nil {
			onError(err)
			continue
		}
		if report.Class != "TPV" || (report.Lat == 0 && report.Lon == 0) {
			continue
		}

		sample := Position{
			Latitude:  report.Lat,
			Longitude: report.Lon,
			Timestamp: reportMillis(report.Time),
		}

		if last != nil {
			if time.Since(lastDelivery) < opts.FastestInterval {
				continue
			}
			movedM := geo.HaversineKm(last.Latitude, last.Longitude, sample.Latitude, sample.Longitude) * 1000
			if movedM < opts.DistanceFilter {
				continue
			}
		}

		last = &sample
		lastDelivery = time.Now()
		onPosition(sample)
	}

	if err := scanner.Err(); err != nil {
		onError(err)
	}
}

func reportMillis(stamp string) int64 {
	if t, err := time.Parse(time.RFC3339, stamp); err == nil {
		return t.UnixMilli()
	}
	return time.Now().UnixMilli()
}
