//go:build !noprom

package metrics

import (
	"net/http"
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type promRecorder struct {
	queryTotal       *prom.CounterVec
	querySeconds     *prom.HistogramVec
	embeddingTotal   *prom.CounterVec
	embeddingSeconds *prom.HistogramVec
	ingestOutcomes   *prom.CounterVec
	toolTotal        *prom.CounterVec
	toolSeconds      *prom.HistogramVec
}

func (p *promRecorder) IncQueryTotal(op string, success bool) {
	p.queryTotal.WithLabelValues(op, strconv.FormatBool(success)).Inc()
}

func (p *promRecorder) ObserveQuerySeconds(op string, success bool, seconds float64) {
	p.querySeconds.WithLabelValues(op, strconv.FormatBool(success)).Observe(seconds)
}

func (p *promRecorder) IncEmbeddingTotal(provider string, success bool) {
	p.embeddingTotal.WithLabelValues(provider, strconv.FormatBool(success)).Inc()
}

func (p *promRecorder) ObserveEmbeddingSeconds(provider string, success bool, seconds float64) {
	p.embeddingSeconds.WithLabelValues(provider, strconv.FormatBool(success)).Observe(seconds)
}

func (p *promRecorder) IncIngestOutcome(outcome string) {
	p.ingestOutcomes.WithLabelValues(outcome).Inc()
}

func (p *promRecorder) IncToolTotal(tool string, success bool) {
	p.toolTotal.WithLabelValues(tool, strconv.FormatBool(success)).Inc()
}

func (p *promRecorder) ObserveToolSeconds(tool string, success bool, seconds float64) {
	p.toolSeconds.WithLabelValues(tool, strconv.FormatBool(success)).Observe(seconds)
}

func newPromRecorder(registry *prom.Registry) *promRecorder {
	p := &promRecorder{
		queryTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "graph_queries_total",
			Help: "Total number of graph statements executed",
		}, []string{"op", "success"}),
		querySeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "graph_query_seconds",
			Help:    "Graph statement duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"op", "success"}),
		embeddingTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding provider requests",
		}, []string{"provider", "success"}),
		embeddingSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "embedding_request_seconds",
			Help:    "Embedding provider request duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"provider", "success"}),
		ingestOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Name: "ingest_nodes_total",
			Help: "Nodes seen by the ingestion pipeline, by outcome",
		}, []string{"outcome"}),
		toolTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "tool_calls_total",
			Help: "Total number of tool handler calls",
		}, []string{"tool", "success"}),
		toolSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "tool_call_seconds",
			Help:    "Tool handler duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"tool", "success"}),
	}
	registry.MustRegister(p.queryTotal, p.querySeconds, p.embeddingTotal, p.embeddingSeconds,
		p.ingestOutcomes, p.toolTotal, p.toolSeconds)
	return p
}

func enablePrometheus(addr string) error {
	registry := prom.NewRegistry()
	SetRecorder(newPromRecorder(registry))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() { _ = http.ListenAndServe(addr, mux) }()
	return nil
}
