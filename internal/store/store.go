// Package store implements the vector store over a property graph: the
// index manager, the embedding ingestion pipeline and similarity search.
package store

import (
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/embeddings"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/logging"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// ProgressFunc is called after each node is processed during ingestion.
type ProgressFunc func(done, total int)

// Option configures a VectorStore.
type Option func(*VectorStore)

func WithLogger(log *zap.Logger) Option {
	return func(s *VectorStore) { s.log = logging.OrNop(log) }
}

func WithProgress(fn ProgressFunc) Option {
	return func(s *VectorStore) { s.progress = fn }
}

// VectorStore attaches embeddings to nodes of one label and searches them.
// It is not safe for concurrent ingestion runs against the same label.
type VectorStore struct {
	gw       graph.Gateway
	provider embeddings.Provider
	cfg      Config
	index    *IndexManager
	log      *zap.Logger
	progress ProgressFunc
}

// New validates cfg (after filling defaults) and builds a store.
func New(gw graph.Gateway, provider embeddings.Provider, cfg Config, opts ...Option) (*VectorStore, error) {
	if gw == nil {
		return nil, vecerr.New(vecerr.CodeStoreInvalidInput, "graph gateway is required")
	}
	if provider == nil {
		return nil, vecerr.New(vecerr.CodeStoreInvalidInput, "embedding provider is required")
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &VectorStore{gw: gw, provider: provider, cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("label", cfg.Label))
	s.index = NewIndexManager(gw, cfg, s.log)
	return s, nil
}

func (s *VectorStore) Config() Config { return s.cfg }

func (s *VectorStore) Index() *IndexManager { return s.index }

func (s *VectorStore) verbose(msg string, fields ...zap.Field) {
	if s.cfg.Verbose {
		s.log.Info(msg, fields...)
		return
	}
	s.log.Debug(msg, fields...)
}
