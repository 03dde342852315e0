package kvsession

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by kvsession APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricCommitSuccess counts sessions written to the store and signed.
	MetricCommitSuccess MetricID = iota
	// MetricCommitFailure counts commit attempts that failed at key minting or store I/O.
	MetricCommitFailure
	// MetricLoadValid counts tokens that verified and produced a populated session.
	MetricLoadValid
	// MetricTokenMalformed counts tokens with no reachable key/MAC separator.
	MetricTokenMalformed
	// MetricSignatureMismatch counts tokens whose MAC did not verify.
	MetricSignatureMismatch
	// MetricKeyExpired counts verified tokens whose embedded expiry had passed.
	MetricKeyExpired
	// MetricPayloadMissing counts verified tokens whose store entry was gone.
	MetricPayloadMissing
	// MetricPayloadCorrupt counts verified tokens whose store entry failed to decode.
	MetricPayloadCorrupt
	// MetricDestroy counts explicit session invalidations.
	MetricDestroy
	// MetricCleanupRun counts completed cleanup sweeps.
	MetricCleanupRun
	// MetricCleanupScanned counts session-shaped keys examined by sweeps.
	MetricCleanupScanned
	// MetricCleanupDeleted counts expired entries removed by sweeps.
	MetricCleanupDeleted
	// MetricLoadLatency is the Load latency histogram.
	MetricLoadLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free operation counters and the Load latency histogram.
// All methods are safe for concurrent use and become no-ops when metrics are
// disabled, keeping the hot path allocation-free.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot defines a public type used by kvsession APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a metrics collector from the given configuration.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are being collected.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments the counter for id by one.
func (m *Metrics) Inc(id MetricID) {
	m.Add(id, 1)
}

// Add increments the counter for id by n.
func (m *Metrics) Add(id MetricID, n uint64) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, n)
}

// Observe records a Load latency sample. Only MetricLoadLatency carries a
// histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricLoadLatency {
		return
	}
	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current counter value for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot captures a point-in-time copy of every counter and histogram.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricLoadLatency].buckets[i])
		}
		s.Histograms[MetricLoadLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
