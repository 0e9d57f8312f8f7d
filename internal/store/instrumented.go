package store

import (
	"sync/atomic"
	"time"

	"github.com/heysubinoy/pyaztext/pkg/kv"
)

// Metrics holds timing statistics for store operations.
// Uses atomic operations for thread-safe updates without locks.
type Metrics struct {
	GetCount    atomic.Uint64
	SetCount    atomic.Uint64
	DeleteCount atomic.Uint64
	RangeCount  atomic.Uint64
	SetErrors   atomic.Uint64

	// Cumulative latencies in nanoseconds
	GetLatencyNs    atomic.Uint64
	SetLatencyNs    atomic.Uint64
	DeleteLatencyNs atomic.Uint64
	RangeLatencyNs  atomic.Uint64
}

// InstrumentedStore wraps any kv.Store implementation with timing metrics.
// This pattern works for both in-memory and Raft-backed stores.
type InstrumentedStore struct {
	store   kv.Store
	metrics *Metrics
}

// Compile-time check to ensure InstrumentedStore implements kv.Store.
var _ kv.Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps a store with instrumentation.
func NewInstrumentedStore(store kv.Store) *InstrumentedStore {
	return &InstrumentedStore{
		store:   store,
		metrics: &Metrics{},
	}
}

// Get delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Get(key string) (string, bool) {
	start := time.Now()
	value, found := s.store.Get(key)
	s.record(&s.metrics.GetCount, &s.metrics.GetLatencyNs, start)
	return value, found
}

// Set delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Set(key, value string) error {
	start := time.Now()
	err := s.store.Set(key, value)
	s.record(&s.metrics.SetCount, &s.metrics.SetLatencyNs, start)
	if err != nil {
		s.metrics.SetErrors.Add(1)
	}
	return err
}

// Delete delegates to the wrapped store and records timing.
func (s *InstrumentedStore) Delete(key string) error {
	start := time.Now()
	err := s.store.Delete(key)
	s.record(&s.metrics.DeleteCount, &s.metrics.DeleteLatencyNs, start)
	return err
}

// Range delegates to the wrapped store. The recorded latency includes fn.
func (s *InstrumentedStore) Range(fn func(key, value string) bool) {
	start := time.Now()
	s.store.Range(fn)
	s.record(&s.metrics.RangeCount, &s.metrics.RangeLatencyNs, start)
}

// Len is not instrumented.
func (s *InstrumentedStore) Len() int {
	return s.store.Len()
}

func (s *InstrumentedStore) record(count, latency *atomic.Uint64, start time.Time) {
	count.Add(1)
	latency.Add(uint64(time.Since(start).Nanoseconds()))
}

// GetMetrics returns a snapshot of current metrics.
func (s *InstrumentedStore) GetMetrics() MetricsSnapshot {
	getCount := s.metrics.GetCount.Load()
	setCount := s.metrics.SetCount.Load()
	deleteCount := s.metrics.DeleteCount.Load()
	rangeCount := s.metrics.RangeCount.Load()

	return MetricsSnapshot{
		Keys:             s.store.Len(),
		GetCount:         getCount,
		SetCount:         setCount,
		DeleteCount:      deleteCount,
		RangeCount:       rangeCount,
		SetErrors:        s.metrics.SetErrors.Load(),
		GetAvgLatency:    s.avgLatency(s.metrics.GetLatencyNs.Load(), getCount),
		SetAvgLatency:    s.avgLatency(s.metrics.SetLatencyNs.Load(), setCount),
		DeleteAvgLatency: s.avgLatency(s.metrics.DeleteLatencyNs.Load(), deleteCount),
		RangeAvgLatency:  s.avgLatency(s.metrics.RangeLatencyNs.Load(), rangeCount),
	}
}

// ResetMetrics clears all metrics counters.
func (s *InstrumentedStore) ResetMetrics() {
	for _, v := range []*atomic.Uint64{
		&s.metrics.GetCount, &s.metrics.SetCount, &s.metrics.DeleteCount, &s.metrics.RangeCount,
		&s.metrics.SetErrors,
		&s.metrics.GetLatencyNs, &s.metrics.SetLatencyNs, &s.metrics.DeleteLatencyNs, &s.metrics.RangeLatencyNs,
	} {
		v.Store(0)
	}
}

func (s *InstrumentedStore) avgLatency(totalNs, count uint64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(totalNs / count)
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Keys             int
	GetCount         uint64
	SetCount         uint64
	DeleteCount      uint64
	RangeCount       uint64
	SetErrors        uint64
	GetAvgLatency    time.Duration
	SetAvgLatency    time.Duration
	DeleteAvgLatency time.Duration
	RangeAvgLatency  time.Duration
}

// MetricsReport is the JSON form of a MetricsSnapshot.
type MetricsReport struct {
	Keys       int               `json:"keys"`
	Operations map[string]uint64 `json:"operations"`
	Errors     map[string]uint64 `json:"errors"`
	AvgLatency map[string]string `json:"avg_latency"`
}

// Report groups the snapshot by operation, with latencies as duration strings.
func (m MetricsSnapshot) Report() MetricsReport {
	return MetricsReport{
		Keys: m.Keys,
		Operations: map[string]uint64{
			"get":    m.GetCount,
			"set":    m.SetCount,
			"delete": m.DeleteCount,
			"range":  m.RangeCount,
		},
		Errors: map[string]uint64{
			"set": m.SetErrors,
		},
		AvgLatency: map[string]string{
			"get":    m.GetAvgLatency.String(),
			"set":    m.SetAvgLatency.String(),
			"delete": m.DeleteAvgLatency.String(),
			"range":  m.RangeAvgLatency.String(),
		},
	}
}
