package store

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/logging"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// IndexManager ensures and inspects the uniqueness constraint and the
// similarity index for a label.
type IndexManager struct {
	gw  graph.Gateway
	cfg Config
	log *zap.Logger
}

// NewIndexManager creates a manager for cfg.Label.
func NewIndexManager(gw graph.Gateway, cfg Config, log *zap.Logger) *IndexManager {
	return &IndexManager{gw: gw, cfg: cfg.withDefaults(), log: logging.OrNop(log)}
}

// IndexName is the similarity index name for the configured label.
func (m *IndexManager) IndexName() string {
	return m.cfg.Index.IndexName(m.cfg.Label)
}

// IndexExists reports whether the similarity index is present. It only
// reads.
func (m *IndexManager) IndexExists(ctx context.Context) (bool, error) {
	return m.exists(ctx, showIndexStmt, m.IndexName())
}

// ConstraintExists reports whether the uniqueness constraint is present.
func (m *IndexManager) ConstraintExists(ctx context.Context) (bool, error) {
	return m.exists(ctx, showConstraintStmt, ConstraintName(m.cfg.Label))
}

// EnsureIndex creates the constraint and the similarity index when missing
// and blocks until the index is online. Calling it again is a no-op beyond
// the existence reads.
func (m *IndexManager) EnsureIndex(ctx context.Context) error {
	hasConstraint, err := m.ConstraintExists(ctx)
	if err != nil {
		return err
	}
	if !hasConstraint {
		stmt, err := createConstraintStmt(m.cfg.Label)
		if err != nil {
			return err
		}
		if _, err := m.gw.Execute(ctx, stmt, nil); err != nil {
			return vecerr.With(err, vecerr.FieldLabel(m.cfg.Label))
		}
	}

	hasIndex, err := m.IndexExists(ctx)
	if err != nil {
		return err
	}
	if hasIndex {
		return nil
	}

	name := m.IndexName()
	m.progress("Creating vector index", zap.String("index", name))
	_, err = m.gw.Execute(ctx, createIndexStmt, map[string]any{
		"indexName":          name,
		"label":              m.cfg.Label,
		"embeddingProperty":  m.cfg.EmbeddingProperty,
		"embeddingDimension": m.cfg.Index.Dimensions,
		"distanceType":       m.cfg.Index.Similarity,
	})
	if err != nil {
		return vecerr.With(err, vecerr.FieldIndex(name))
	}

	_, err = m.gw.Execute(ctx, awaitIndexStmt, map[string]any{
		"indexName":      name,
		"timeoutSeconds": int64(math.Ceil(m.cfg.Index.AwaitTimeout.Seconds())),
	})
	if err != nil {
		return vecerr.With(err, vecerr.FieldIndex(name))
	}
	m.progress("Created vector index", zap.String("index", name))
	return nil
}

func (m *IndexManager) exists(ctx context.Context, stmt, name string) (bool, error) {
	records, err := m.gw.Execute(ctx, stmt, map[string]any{"name": name})
	if err != nil {
		return false, vecerr.With(err, vecerr.Field("name", name))
	}
	if len(records) == 0 {
		return false, nil
	}
	return records[0].Bool("exists")
}

func (m *IndexManager) progress(msg string, fields ...zap.Field) {
	if m.cfg.Verbose {
		m.log.Info(msg, fields...)
		return
	}
	m.log.Debug(msg, fields...)
}
