package internaldefs

import (
	kvsession "github.com/mwalds/kvsession"
)

// CounterDef maps a [kvsession.MetricID] to its exported series name.
type CounterDef struct {
	ID   kvsession.MetricID
	Name string
	Help string
}

// HistogramDef maps a histogram [kvsession.MetricID] to its series name.
type HistogramDef struct {
	ID   kvsession.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: kvsession.MetricCommitSuccess, Name: "kvsession_commit_success_total", Help: "Sessions committed to the store and signed."},
	{ID: kvsession.MetricCommitFailure, Name: "kvsession_commit_failure_total", Help: "Commit attempts failed at key minting or store I/O."},
	{ID: kvsession.MetricLoadValid, Name: "kvsession_load_valid_total", Help: "Tokens that verified and produced a populated session."},
	{ID: kvsession.MetricTokenMalformed, Name: "kvsession_token_malformed_total", Help: "Tokens with no parsable key/MAC structure."},
	{ID: kvsession.MetricSignatureMismatch, Name: "kvsession_signature_mismatch_total", Help: "Tokens whose MAC failed verification."},
	{ID: kvsession.MetricKeyExpired, Name: "kvsession_key_expired_total", Help: "Verified tokens whose embedded expiry had passed."},
	{ID: kvsession.MetricPayloadMissing, Name: "kvsession_payload_missing_total", Help: "Verified tokens whose store entry was absent."},
	{ID: kvsession.MetricPayloadCorrupt, Name: "kvsession_payload_corrupt_total", Help: "Verified tokens whose store entry failed to decode."},
	{ID: kvsession.MetricDestroy, Name: "kvsession_destroy_total", Help: "Explicit session invalidations."},
	{ID: kvsession.MetricCleanupRun, Name: "kvsession_cleanup_run_total", Help: "Completed cleanup sweeps."},
	{ID: kvsession.MetricCleanupScanned, Name: "kvsession_cleanup_scanned_total", Help: "Session-shaped keys examined by sweeps."},
	{ID: kvsession.MetricCleanupDeleted, Name: "kvsession_cleanup_deleted_total", Help: "Expired entries removed by sweeps."},
}

// HistogramDefs lists every exported histogram in render order.
var HistogramDefs = []HistogramDef{
	{ID: kvsession.MetricLoadLatency, Name: "kvsession_load_latency_seconds", Help: "Load latency histogram."},
}

// HistogramBounds are the cumulative bucket upper bounds in seconds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus histograms expose.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
