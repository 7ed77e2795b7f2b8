// Package config loads the tool's configuration with viper. Precedence is
// flag > environment > config file > defaults.
package config

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/store"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
	"github.com/ZanzyTHEbar/neo4j-vector-go/pkg/vector"
)

// EnvPrefix prefixes every environment variable, e.g. NEO4J_VECTOR_NEO4J_URI.
const EnvPrefix = "NEO4J_VECTOR"

// Config is the top-level configuration.
type Config struct {
	Neo4j             Neo4jConfig   `mapstructure:"neo4j"`
	OpenAI            OpenAIConfig  `mapstructure:"openai"`
	Model             string        `mapstructure:"model"`
	Label             string        `mapstructure:"label"`
	EmbeddingProperty string        `mapstructure:"embedding_property"`
	Verbose           bool          `mapstructure:"verbose"`
	Index             IndexConfig   `mapstructure:"index"`
	Ingest            IngestConfig  `mapstructure:"ingest"`
	Log               LogConfig     `mapstructure:"log"`
	Metrics           MetricsConfig `mapstructure:"metrics"`
}

type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// IndexConfig controls the similarity index created for a label.
type IndexConfig struct {
	NamePrefix   string        `mapstructure:"name_prefix"`
	Dimensions   int           `mapstructure:"dimensions"`
	Similarity   string        `mapstructure:"similarity"`
	AwaitTimeout time.Duration `mapstructure:"await_timeout"`
}

type IngestConfig struct {
	FailurePolicy string `mapstructure:"failure_policy"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// SetDefaults registers every key with its default so environment variables
// are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.user", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.timeout", 60*time.Second)
	v.SetDefault("model", "text-embedding-ada-002")
	v.SetDefault("label", "")
	v.SetDefault("embedding_property", "embedding")
	v.SetDefault("verbose", false)

	idx := store.DefaultIndexConfig()
	v.SetDefault("index.name_prefix", idx.NamePrefix)
	v.SetDefault("index.dimensions", idx.Dimensions)
	v.SetDefault("index.similarity", idx.Similarity)
	v.SetDefault("index.await_timeout", idx.AwaitTimeout)

	v.SetDefault("ingest.failure_policy", string(store.FailurePolicyDrop))
	v.SetDefault("log.level", "warn")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
}

// SetupEnv enables NEO4J_VECTOR_* overrides. The API key is also read from
// the conventional OPENAI_API_KEY.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("openai.api_key", EnvPrefix+"_OPENAI_API_KEY", "OPENAI_API_KEY")
}

// ReadFile reads path, or discovers neo4j-vector.{yaml,yml,json,toml} in the
// working directory and $HOME/.config/neo4j-vector when path is empty. A
// missing discovered file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return vecerr.Errorf(vecerr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
		return nil
	}

	v.SetConfigName("neo4j-vector")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/neo4j-vector")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return vecerr.Errorf(vecerr.CodeConfigLoadReadFailure, "reading config: %w", err)
		}
	}
	return nil
}

// FromViper decodes v without validating.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, vecerr.Errorf(vecerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Load reads configuration from path (or discovered locations) with
// environment overrides and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	cfg, err := FromViper(v)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, vecerr.Join(errs...)
	}
	return cfg, nil
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		errs = append(errs, vecerr.New(vecerr.CodeConfigCredentialMissing,
			"config: missing env OPENAI_API_KEY (or openai.api_key)"))
	}
	if strings.TrimSpace(c.Label) == "" {
		errs = append(errs, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "config: label must not be empty"))
	}
	if strings.TrimSpace(c.Neo4j.URI) == "" {
		errs = append(errs, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "config: neo4j.uri must not be empty"))
	}
	if strings.TrimSpace(c.Model) == "" {
		errs = append(errs, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "config: model must not be empty"))
	}
	if strings.TrimSpace(c.EmbeddingProperty) == "" {
		errs = append(errs, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "config: embedding_property must not be empty"))
	}
	if c.Index.Dimensions <= 0 {
		errs = append(errs, vecerr.Errorf(vecerr.CodeConfigValidateInvalidValue,
			"config: index.dimensions must be positive, got %d", c.Index.Dimensions))
	}
	switch strings.ToLower(c.Index.Similarity) {
	case "cosine", "euclidean":
	default:
		errs = append(errs, vecerr.Errorf(vecerr.CodeConfigValidateInvalidValue,
			"config: index.similarity must be one of [cosine, euclidean], got %q", c.Index.Similarity))
	}
	if c.Index.AwaitTimeout <= 0 {
		errs = append(errs, vecerr.Errorf(vecerr.CodeConfigValidateInvalidValue,
			"config: index.await_timeout must be positive, got %s", c.Index.AwaitTimeout))
	}
	if _, err := store.ParseFailurePolicy(c.Ingest.FailurePolicy); err != nil {
		errs = append(errs, vecerr.Errorf(vecerr.CodeConfigValidateInvalidValue,
			"config: ingest.failure_policy must be one of [drop, abort], got %q", c.Ingest.FailurePolicy))
	}
	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			errs = append(errs, vecerr.Errorf(vecerr.CodeConfigValidateInvalidValue,
				"config: metrics.addr must be a valid host:port address, got %q: %w", c.Metrics.Addr, err))
		}
	}
	return errs
}

// VectorConfig maps the configuration onto the library API.
func (c *Config) VectorConfig() *vector.Config {
	return &vector.Config{
		Neo4jURI:          c.Neo4j.URI,
		Neo4jUser:         c.Neo4j.User,
		Neo4jPassword:     c.Neo4j.Password,
		Neo4jDatabase:     c.Neo4j.Database,
		OpenAIAPIKey:      c.OpenAI.APIKey,
		OpenAIBaseURL:     c.OpenAI.BaseURL,
		OpenAITimeout:     c.OpenAI.Timeout,
		Label:             c.Label,
		EmbeddingProperty: c.EmbeddingProperty,
		Model:             c.Model,
		Verbose:           c.Verbose,
		IndexNamePrefix:   c.Index.NamePrefix,
		IndexDimensions:   c.Index.Dimensions,
		IndexSimilarity:   c.Index.Similarity,
		IndexAwaitTimeout: c.Index.AwaitTimeout,
		FailurePolicy:     c.Ingest.FailurePolicy,
	}
}
