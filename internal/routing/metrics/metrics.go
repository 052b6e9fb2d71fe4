package metrics

import (
	"sync"
	"time"
)

// Metrics counts table mutations and forwarding decisions for a session
type Metrics struct {
	RoutesAdded   int64
	RoutesRemoved int64
	RemoveMisses  int64
	Forwarded     int64
	Dropped       int64
	LastUpdate    time.Time
	mutex         sync.RWMutex
}

// Stats is a point-in-time copy of the counters
type Stats struct {
	RoutesAdded   int64
	RoutesRemoved int64
	RemoveMisses  int64
	Forwarded     int64
	Dropped       int64
	LastUpdate    time.Time
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdate: time.Now(),
	}
}

// RecordAdd records n routes added
func (m *Metrics) RecordAdd(n int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.RoutesAdded += int64(n)
	m.LastUpdate = time.Now()
}

// RecordRemove records a delete command and whether it removed anything
func (m *Metrics) RecordRemove(removed bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if removed {
		m.RoutesRemoved++
	} else {
		m.RemoveMisses++
	}
	m.LastUpdate = time.Now()
}

// RecordDecision records the outcome of a packet lookup
func (m *Metrics) RecordDecision(forwarded bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if forwarded {
		m.Forwarded++
	} else {
		m.Dropped++
	}
	m.LastUpdate = time.Now()
}

// Snapshot returns the metrics statistics
func (m *Metrics) Snapshot() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return Stats{
		RoutesAdded:   m.RoutesAdded,
		RoutesRemoved: m.RoutesRemoved,
		RemoveMisses:  m.RemoveMisses,
		Forwarded:     m.Forwarded,
		Dropped:       m.Dropped,
		LastUpdate:    m.LastUpdate,
	}
}
