package store

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/metrics"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// OutcomeKind tags what happened to one node during ingestion.
type OutcomeKind int

const (
	Embedded OutcomeKind = iota
	SkippedEmpty
	SkippedEmbeddingFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case Embedded:
		return metrics.OutcomeEmbedded
	case SkippedEmpty:
		return metrics.OutcomeSkippedEmpty
	case SkippedEmbeddingFailed:
		return metrics.OutcomeEmbeddingFailed
	default:
		return "unknown"
	}
}

// Outcome is the ingestion result for one node. Err is set only for
// SkippedEmbeddingFailed.
type Outcome struct {
	ElementID string
	Kind      OutcomeKind
	Err       error
}

// IngestReport summarises an ingestion run. Outcomes are in projection order.
type IngestReport struct {
	Outcomes []Outcome
	// Updated is the node count reported by the write statement.
	Updated int64
}

func (r IngestReport) count(kind OutcomeKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

func (r IngestReport) Found() int        { return len(r.Outcomes) }
func (r IngestReport) Embedded() int     { return r.count(Embedded) }
func (r IngestReport) SkippedEmpty() int { return r.count(SkippedEmpty) }
func (r IngestReport) Failed() int       { return r.count(SkippedEmbeddingFailed) }

// embeddingRow is one entry of the batched write.
type embeddingRow struct {
	elementID string
	vector    []float64
}

// Ingest embeds the concatenated values of properties on every node with the
// store's label and writes all embeddings in a single statement. Nodes
// without text are skipped; nodes whose embedding fails are dropped, or
// abort the run under FailurePolicyAbort. Nothing is written before every
// node has been processed.
func (s *VectorStore) Ingest(ctx context.Context, properties []string) (IngestReport, error) {
	var report IngestReport
	if len(properties) == 0 {
		return report, vecerr.New(vecerr.CodeStoreInvalidInput, "at least one property is required")
	}

	stmt, err := projectStmt(s.cfg.Label, properties)
	if err != nil {
		return report, err
	}
	records, err := s.gw.Execute(ctx, stmt, nil)
	if err != nil {
		return report, vecerr.With(err, vecerr.FieldLabel(s.cfg.Label))
	}
	s.verbose("Found nodes to process", zap.Int("count", len(records)))

	rows := make([]embeddingRow, 0, len(records))
	for i, rec := range records {
		id, err := rec.String("elementId")
		if err != nil {
			return report, err
		}
		projected, err := rec.Map("properties")
		if err != nil {
			return report, err
		}

		text := concatText(graph.PropertiesFromMap(projected), properties)
		outcome := Outcome{ElementID: id}
		switch {
		case text == "":
			outcome.Kind = SkippedEmpty
			s.log.Debug("skipping node without text",
				zap.String("outcome", outcome.Kind.String()), zap.String("element_id", id))
		default:
			vec, embErr := s.provider.Embed(ctx, text, s.cfg.Model)
			if embErr != nil {
				outcome.Kind = SkippedEmbeddingFailed
				outcome.Err = embErr
				s.log.Warn("dropping node, embedding failed",
					zap.String("outcome", outcome.Kind.String()), zap.String("element_id", id), zap.Error(embErr))
				if s.cfg.FailurePolicy == FailurePolicyAbort {
					report.Outcomes = append(report.Outcomes, outcome)
					metrics.Default().IncIngestOutcome(outcome.Kind.String())
					return report, vecerr.Wrap(embErr, vecerr.CodeStoreIngestAborted, "ingestion aborted, nothing was written",
						vecerr.FieldElementID(id), vecerr.FieldLabel(s.cfg.Label))
				}
			} else {
				outcome.Kind = Embedded
				rows = append(rows, embeddingRow{elementID: id, vector: vec.Float64s()})
			}
		}
		report.Outcomes = append(report.Outcomes, outcome)
		metrics.Default().IncIngestOutcome(outcome.Kind.String())
		if s.progress != nil {
			s.progress(i+1, len(records))
		}
	}

	if len(rows) == 0 {
		s.verbose("No embeddings to write")
		return report, nil
	}

	updated, err := s.writeEmbeddings(ctx, rows)
	if err != nil {
		return report, err
	}
	report.Updated = updated
	s.verbose("Wrote embeddings", zap.Int("rows", len(rows)), zap.Int64("updated", updated))
	return report, nil
}

func (s *VectorStore) writeEmbeddings(ctx context.Context, rows []embeddingRow) (int64, error) {
	stmt, err := setVectorsStmt(s.cfg.Label)
	if err != nil {
		return 0, err
	}
	params := make([]map[string]any, len(rows))
	for i, r := range rows {
		params[i] = map[string]any{"elementId": r.elementID, "embedding": r.vector}
	}
	records, err := s.gw.Execute(ctx, stmt, map[string]any{
		"rows":              params,
		"embeddingProperty": s.cfg.EmbeddingProperty,
	})
	if err != nil {
		return 0, vecerr.With(err, vecerr.FieldLabel(s.cfg.Label), vecerr.Field("rows", len(rows)))
	}
	if len(records) == 0 {
		return 0, nil
	}
	return records[0].Int("updated")
}

// concatText joins the present values of properties, in the given order,
// with a newline. Null and absent properties contribute nothing.
func concatText(props graph.Properties, properties []string) string {
	parts := make([]string, 0, len(properties))
	for _, name := range properties {
		if text, ok := props.Get(name).Text(); ok {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
