package inventory

import (
	"sync"
	"time"
)

// DefaultWindow is the sliding window used for scan frequency tracking
// when no explicit window is configured.
const DefaultWindow = 60 * time.Second

// Tracker counts scan events per device over a sliding window. It answers
// one question: how many times was this IP scanned within the last window.
// Timestamps older than the window are dropped on every touch, so slices
// stay short for quiet hosts.
type Tracker struct {
	mu     sync.Mutex
	window time.Duration
	events map[string][]time.Time
	now    func() time.Time
}

// NewTracker creates a tracker. A non-positive window falls back to
// DefaultWindow.
func NewTracker(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		window: window,
		events: make(map[string][]time.Time),
		now:    time.Now,
	}
}

// RecordScan registers one scan event for the IP at the current time.
func (t *Tracker) RecordScan(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.events[ip] = append(t.prune(t.events[ip], now), now)
}

// Frequency returns the number of scan events inside the window.
func (t *Tracker) Frequency(ip string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	pruned := t.prune(t.events[ip], t.now())
	if len(pruned) == 0 {
		delete(t.events, ip)
		return 0
	}
	t.events[ip] = pruned
	return len(pruned)
}

// Window returns the sliding window length.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// Forget drops all recorded activity for the IP.
func (t *Tracker) Forget(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.events, ip)
}

// Clear wipes all tracked activity.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = make(map[string][]time.Time)
}

// Compact prunes expired timestamps for every tracked IP and returns the
// number of IPs still carrying events. Meant for periodic housekeeping.
func (t *Tracker) Compact() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for ip, ts := range t.events {
		pruned := t.prune(ts, now)
		if len(pruned) == 0 {
			delete(t.events, ip)
			continue
		}
		t.events[ip] = pruned
	}
	return len(t.events)
}

// prune returns the suffix of ts younger than the window. Timestamps are
// appended in order, so a single scan from the front suffices.
func (t *Tracker) prune(ts []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-t.window)
	idx := 0
	for idx < len(ts) && !ts[idx].After(cutoff) {
		idx++
	}
	return ts[idx:]
}
