// Package vector is the library-first API for attaching embeddings to graph
// nodes and searching them, without the CLI or MCP transport.
package vector

import (
	"context"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/embeddings"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/logging"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/store"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// Option configures a Service.
type Option func(*options)

type options struct {
	log      *zap.Logger
	progress store.ProgressFunc
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithProgress reports ingestion progress as (done, total).
func WithProgress(fn store.ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// IndexStatus describes the schema objects backing the configured label.
type IndexStatus struct {
	Label            string
	IndexName        string
	IndexExists      bool
	ConstraintName   string
	ConstraintExists bool
}

// Service wires a graph gateway, an embedding provider and a vector store.
type Service struct {
	gw    graph.Gateway
	store *store.VectorStore
	log   *zap.Logger
}

// NewService builds the Neo4j gateway and the OpenAI provider from cfg. The
// configuration and the API key are checked before any connection is made.
func NewService(cfg *Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "config is required")
	}
	storeCfg, err := cfg.StoreConfig()
	if err != nil {
		return nil, err
	}

	dims := storeCfg.Index.Dimensions
	if dims == 0 {
		dims = store.DefaultIndexConfig().Dimensions
	}

	o := collect(opts)
	provider, err := embeddings.NewOpenAI(cfg.toOpenAI(dims), o.log)
	if err != nil {
		return nil, err
	}
	gw, err := graph.NewNeo4jGateway(cfg.toGraph(), o.log)
	if err != nil {
		return nil, err
	}

	svc, err := newService(gw, embeddings.WithDimensions(provider, dims), storeCfg, o)
	if err != nil {
		_ = gw.Close(context.Background())
		return nil, err
	}
	return svc, nil
}

// NewServiceWith builds a Service over caller-supplied collaborators.
func NewServiceWith(gw graph.Gateway, provider embeddings.Provider, cfg store.Config, opts ...Option) (*Service, error) {
	return newService(gw, provider, cfg, collect(opts))
}

func newService(gw graph.Gateway, provider embeddings.Provider, cfg store.Config, o options) (*Service, error) {
	storeOpts := []store.Option{store.WithLogger(o.log)}
	if o.progress != nil {
		storeOpts = append(storeOpts, store.WithProgress(o.progress))
	}
	vs, err := store.New(gw, provider, cfg, storeOpts...)
	if err != nil {
		return nil, err
	}
	return &Service{gw: gw, store: vs, log: logging.OrNop(o.log)}, nil
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.log = logging.OrNop(o.log)
	return o
}

// Config returns the effective store configuration.
func (s *Service) Config() store.Config { return s.store.Config() }

// CreateEmbeddings makes sure the similarity index exists, then embeds the
// concatenated properties of every node with the configured label.
func (s *Service) CreateEmbeddings(ctx context.Context, properties []string) (store.IngestReport, error) {
	if err := s.store.Index().EnsureIndex(ctx); err != nil {
		return store.IngestReport{}, err
	}
	return s.store.Ingest(ctx, properties)
}

// Search returns the nodes most similar to phrase. It fails with
// store.index.not_found, before embedding anything, when the similarity
// index is absent.
func (s *Service) Search(ctx context.Context, phrase string, limit int, threshold float64) (store.SimilarityResult, error) {
	idx := s.store.Index()
	exists, err := idx.IndexExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, vecerr.New(vecerr.CodeStoreIndexNotFound, "Vector index does not exist.",
			vecerr.FieldIndex(idx.IndexName()), vecerr.FieldLabel(s.store.Config().Label))
	}
	return s.store.Search(ctx, phrase, limit, threshold)
}

// IndexStatus reads the existence of the constraint and the similarity index.
func (s *Service) IndexStatus(ctx context.Context) (IndexStatus, error) {
	idx := s.store.Index()
	label := s.store.Config().Label
	status := IndexStatus{
		Label:          label,
		IndexName:      idx.IndexName(),
		ConstraintName: store.ConstraintName(label),
	}
	var err error
	if status.IndexExists, err = idx.IndexExists(ctx); err != nil {
		return status, err
	}
	if status.ConstraintExists, err = idx.ConstraintExists(ctx); err != nil {
		return status, err
	}
	return status, nil
}

type connectivityChecker interface {
	VerifyConnectivity(ctx context.Context) error
}

// Ping verifies the graph connection when the gateway supports it.
func (s *Service) Ping(ctx context.Context) error {
	if c, ok := s.gw.(connectivityChecker); ok {
		return c.VerifyConnectivity(ctx)
	}
	return nil
}

type closer interface {
	Close(ctx context.Context) error
}

// Close releases resources.
func (s *Service) Close(ctx context.Context) error {
	if c, ok := s.gw.(closer); ok {
		return c.Close(ctx)
	}
	return nil
}
