package store

import (
	"strings"
	"time"

	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// FailurePolicy decides what ingestion does with a node whose embedding
// could not be created.
type FailurePolicy string

const (
	// FailurePolicyDrop leaves the node without an embedding and carries on.
	FailurePolicyDrop FailurePolicy = "drop"
	// FailurePolicyAbort stops ingestion before anything is written.
	FailurePolicyAbort FailurePolicy = "abort"
)

// ParseFailurePolicy accepts "drop", "abort" or "" (drop).
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FailurePolicyDrop:
		return FailurePolicyDrop, nil
	case FailurePolicyAbort:
		return FailurePolicyAbort, nil
	default:
		return "", vecerr.New(vecerr.CodeConfigValidateInvalidValue, "unknown ingest failure policy",
			vecerr.Field("policy", s))
	}
}

// IndexConfig describes the similarity index backing a label.
type IndexConfig struct {
	NamePrefix   string
	Dimensions   int
	Similarity   string
	AwaitTimeout time.Duration
}

// DefaultIndexConfig matches the 1536-dimension OpenAI ada embeddings.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		NamePrefix:   "neo4j-vector-index-",
		Dimensions:   1536,
		Similarity:   "cosine",
		AwaitTimeout: 300 * time.Second,
	}
}

// IndexName is the similarity index name for label.
func (c IndexConfig) IndexName(label string) string {
	return c.NamePrefix + label
}

// ConstraintName is the uniqueness constraint name for label.
func ConstraintName(label string) string {
	return label + "_unique_idx"
}

// Config is the immutable configuration of a vector store.
type Config struct {
	Label             string
	EmbeddingProperty string
	Model             string
	Verbose           bool
	Index             IndexConfig
	FailurePolicy     FailurePolicy
}

// Validate reports every problem with c as one configuration error.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Label) == "" {
		errs = append(errs, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "label must not be empty"))
	}
	if strings.TrimSpace(c.EmbeddingProperty) == "" {
		errs = append(errs, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "embedding property must not be empty"))
	}
	if strings.TrimSpace(c.Model) == "" {
		errs = append(errs, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "model must not be empty"))
	}
	if c.Index.Dimensions <= 0 {
		errs = append(errs, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "index dimensions must be positive",
			vecerr.Field("dimensions", c.Index.Dimensions)))
	}
	switch strings.ToLower(c.Index.Similarity) {
	case "cosine", "euclidean":
	default:
		errs = append(errs, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "index similarity must be cosine or euclidean",
			vecerr.Field("similarity", c.Index.Similarity)))
	}
	if c.Index.AwaitTimeout <= 0 {
		errs = append(errs, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "index await timeout must be positive"))
	}
	if _, err := ParseFailurePolicy(string(c.FailurePolicy)); err != nil {
		errs = append(errs, err)
	}
	return vecerr.Join(errs...)
}

func (c Config) withDefaults() Config {
	if c.EmbeddingProperty == "" {
		c.EmbeddingProperty = "embedding"
	}
	if c.Model == "" {
		c.Model = "text-embedding-ada-002"
	}
	def := DefaultIndexConfig()
	if c.Index.NamePrefix == "" {
		c.Index.NamePrefix = def.NamePrefix
	}
	if c.Index.Dimensions == 0 {
		c.Index.Dimensions = def.Dimensions
	}
	if c.Index.Similarity == "" {
		c.Index.Similarity = def.Similarity
	}
	if c.Index.AwaitTimeout == 0 {
		c.Index.AwaitTimeout = def.AwaitTimeout
	}
	if c.FailurePolicy == "" {
		c.FailurePolicy = FailurePolicyDrop
	}
	return c
}
