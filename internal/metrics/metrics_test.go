//go:build !noprom

package metrics

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPromRecorderCounts(t *testing.T) {
	registry := prom.NewRegistry()
	rec := newPromRecorder(registry)
	prev := SetRecorder(rec)
	t.Cleanup(func() { SetRecorder(prev) })

	TimeQuery("search")(true)
	TimeQuery("search")(false)
	TimeEmbedding("openai")(true)
	Default().IncIngestOutcome(OutcomeSkippedEmpty)
	Default().IncIngestOutcome(OutcomeSkippedEmpty)
	Default().IncIngestOutcome(OutcomeEmbeddingFailed)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.queryTotal.WithLabelValues("search", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.queryTotal.WithLabelValues("search", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.embeddingTotal.WithLabelValues("openai", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.ingestOutcomes.WithLabelValues(OutcomeSkippedEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.ingestOutcomes.WithLabelValues(OutcomeEmbeddingFailed)))
}

func TestSetRecorderNilRestoresNoop(t *testing.T) {
	prev := SetRecorder(nil)
	t.Cleanup(func() { SetRecorder(prev) })

	_, ok := Default().(*noopRecorder)
	assert.True(t, ok)
}
