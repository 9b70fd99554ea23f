package testutil

import (
	"sync"
)

// ConcurrencyProbe tracks how many probed sections run at the same time.
// Jobs wrap their body in Enter/Exit; the probe records the high-water mark
// of overlapping sections so tests can assert a concurrency bound.
type ConcurrencyProbe struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	entries  int
}

// NewConcurrencyProbe creates an empty probe.
func NewConcurrencyProbe() *ConcurrencyProbe {
	return &ConcurrencyProbe{}
}

// Enter marks the start of a probed section.
func (p *ConcurrencyProbe) Enter() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.inFlight++
	p.entries++
	if p.inFlight > p.peak {
		p.peak = p.inFlight
	}
}

// Exit marks the end of a probed section.
func (p *ConcurrencyProbe) Exit() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inFlight == 0 {
		panic("testutil: Exit without matching Enter")
	}
	p.inFlight--
}

// Peak returns the maximum number of sections observed in flight at once.
func (p *ConcurrencyProbe) Peak() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

// Entries returns the total number of sections entered.
func (p *ConcurrencyProbe) Entries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entries
}

// InFlight returns the number of sections currently running.
func (p *ConcurrencyProbe) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// OrderLog is a thread-safe append-only log of string markers, used to
// assert execution order across goroutines.
type OrderLog struct {
	mu      sync.Mutex
	entries []string
}

// NewOrderLog creates an empty log.
func NewOrderLog() *OrderLog {
	return &OrderLog{}
}

// Record appends a marker to the log.
func (l *OrderLog) Record(marker string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, marker)
}

// Entries returns a copy of the recorded markers in order.
func (l *OrderLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded markers.
func (l *OrderLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
