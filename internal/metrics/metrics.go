// Package metrics provides a minimal instrumentation interface with a no-op
// default and an optional Prometheus-backed implementation.
package metrics

import (
	"sync"
	"time"
)

// Ingestion outcome labels.
const (
	OutcomeEmbedded        = "embedded"
	OutcomeSkippedEmpty    = "skipped_empty"
	OutcomeEmbeddingFailed = "embedding_failed"
)

// Recorder defines the metrics surface used across the codebase.
type Recorder interface {
	IncQueryTotal(op string, success bool)
	ObserveQuerySeconds(op string, success bool, seconds float64)
	IncEmbeddingTotal(provider string, success bool)
	ObserveEmbeddingSeconds(provider string, success bool, seconds float64)
	IncIngestOutcome(outcome string)
	IncToolTotal(tool string, success bool)
	ObserveToolSeconds(tool string, success bool, seconds float64)
}

// noopRecorder implements Recorder with no-ops.
type noopRecorder struct{}

func (n *noopRecorder) IncQueryTotal(string, bool)                    {}
func (n *noopRecorder) ObserveQuerySeconds(string, bool, float64)     {}
func (n *noopRecorder) IncEmbeddingTotal(string, bool)                {}
func (n *noopRecorder) ObserveEmbeddingSeconds(string, bool, float64) {}
func (n *noopRecorder) IncIngestOutcome(string)                       {}
func (n *noopRecorder) IncToolTotal(string, bool)                     {}
func (n *noopRecorder) ObserveToolSeconds(string, bool, float64)      {}

var (
	recMu    sync.RWMutex
	recorder Recorder = &noopRecorder{}
)

// Default returns the current recorder.
func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

// SetRecorder swaps the global recorder implementation and returns the
// previous one.
func SetRecorder(r Recorder) Recorder {
	recMu.Lock()
	defer recMu.Unlock()
	prev := recorder
	if r == nil {
		r = &noopRecorder{}
	}
	recorder = r
	return prev
}

// TimeQuery is a helper to time graph statements.
func TimeQuery(op string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncQueryTotal(op, success)
		Default().ObserveQuerySeconds(op, success, dur)
	}
}

// TimeEmbedding is a helper to time embedding provider calls.
func TimeEmbedding(provider string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncEmbeddingTotal(provider, success)
		Default().ObserveEmbeddingSeconds(provider, success, dur)
	}
}

// TimeTool is a helper to time tool handler operations.
func TimeTool(tool string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncToolTotal(tool, success)
		Default().ObserveToolSeconds(tool, success, dur)
	}
}

// Enable installs the Prometheus recorder and starts a small HTTP server on
// addr with /metrics and /healthz. Builds tagged noprom keep the noop.
func Enable(addr string) error {
	return enablePrometheus(addr)
}
