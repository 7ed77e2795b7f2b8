package vector

import (
	"time"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/embeddings"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/store"
)

// Config exposes a stable wrapper for the store, graph and embedding
// configuration in package mode.
type Config struct {
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAITimeout time.Duration

	Label             string
	EmbeddingProperty string
	Model             string
	Verbose           bool

	IndexNamePrefix   string
	IndexDimensions   int
	IndexSimilarity   string
	IndexAwaitTimeout time.Duration

	// FailurePolicy is "drop" (default) or "abort".
	FailurePolicy string
}

// StoreConfig maps c onto the store configuration.
func (c *Config) StoreConfig() (store.Config, error) {
	policy, err := store.ParseFailurePolicy(c.FailurePolicy)
	if err != nil {
		return store.Config{}, err
	}
	return store.Config{
		Label:             c.Label,
		EmbeddingProperty: c.EmbeddingProperty,
		Model:             c.Model,
		Verbose:           c.Verbose,
		Index: store.IndexConfig{
			NamePrefix:   c.IndexNamePrefix,
			Dimensions:   c.IndexDimensions,
			Similarity:   c.IndexSimilarity,
			AwaitTimeout: c.IndexAwaitTimeout,
		},
		FailurePolicy: policy,
	}, nil
}

func (c *Config) toGraph() graph.Neo4jConfig {
	return graph.Neo4jConfig{
		URI:      c.Neo4jURI,
		User:     c.Neo4jUser,
		Password: c.Neo4jPassword,
		Database: c.Neo4jDatabase,
	}
}

func (c *Config) toOpenAI(dims int) embeddings.OpenAIConfig {
	return embeddings.OpenAIConfig{
		APIKey:     c.OpenAIAPIKey,
		BaseURL:    c.OpenAIBaseURL,
		Timeout:    c.OpenAITimeout,
		Dimensions: dims,
	}
}
