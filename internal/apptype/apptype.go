package apptype

import (
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/store"
)

// NodeView is a graph node as rendered to users and tool clients. Only the
// requested properties are included.
type NodeView struct {
	ElementID  string         `json:"elementId" yaml:"elementId"`
	Labels     []string       `json:"labels" yaml:"labels"`
	Properties map[string]any `json:"properties" yaml:"properties"`
}

// Match is one similarity search hit.
type Match struct {
	Node       NodeView `json:"node" yaml:"node"`
	Similarity float64  `json:"similarity" yaml:"similarity"`
}

// SearchResult represents the result of a similarity search, best match first.
type SearchResult struct {
	Records []Match `json:"records" yaml:"records"`
}

// NodeFailure names a node that was left without an embedding.
type NodeFailure struct {
	ElementID string `json:"elementId" yaml:"elementId"`
	Error     string `json:"error" yaml:"error"`
}

// IngestSummary summarises an ingestion run.
type IngestSummary struct {
	Found        int           `json:"found" yaml:"found"`
	Embedded     int           `json:"embedded" yaml:"embedded"`
	SkippedEmpty int           `json:"skippedEmpty" yaml:"skippedEmpty"`
	Failed       int           `json:"failed" yaml:"failed"`
	Updated      int64         `json:"updated" yaml:"updated"`
	Failures     []NodeFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// NewNodeView projects n onto properties, in that order. Absent and null
// properties are left out.
func NewNodeView(n graph.Node, properties []string) NodeView {
	view := NodeView{
		ElementID:  n.ElementID,
		Labels:     append([]string{}, n.Labels...),
		Properties: make(map[string]any, len(properties)),
	}
	for _, name := range properties {
		if v := n.Properties.Get(name); v.Any() != nil {
			view.Properties[name] = v.Any()
		}
	}
	return view
}

// NewSearchResult converts a store result.
func NewSearchResult(r store.SimilarityResult, properties []string) SearchResult {
	out := SearchResult{Records: make([]Match, 0, len(r))}
	for _, m := range r {
		out.Records = append(out.Records, Match{Node: NewNodeView(m.Node, properties), Similarity: m.Score})
	}
	return out
}

// NewIngestSummary converts a store report.
func NewIngestSummary(r store.IngestReport) IngestSummary {
	s := IngestSummary{
		Found:        r.Found(),
		Embedded:     r.Embedded(),
		SkippedEmpty: r.SkippedEmpty(),
		Failed:       r.Failed(),
		Updated:      r.Updated,
	}
	for _, o := range r.Outcomes {
		if o.Kind == store.SkippedEmbeddingFailed && o.Err != nil {
			s.Failures = append(s.Failures, NodeFailure{ElementID: o.ElementID, Error: o.Err.Error()})
		}
	}
	return s
}
