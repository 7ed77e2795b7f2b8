package embeddings

import (
	"context"
	"errors"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/logging"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/metrics"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// OpenAIConfig holds OpenAI provider configuration.
type OpenAIConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint (mock servers, proxies, compatible
	// gateways).
	BaseURL string
	// Timeout bounds a single request; zero leaves the SDK default.
	Timeout time.Duration
	// Dimensions is informational; the index dimension is enforced by
	// WithDimensions.
	Dimensions int
}

// OpenAIProvider computes embeddings through the OpenAI embeddings endpoint.
// Requests are never retried.
type OpenAIProvider struct {
	client openaisdk.Client
	dims   int
	log    *zap.Logger
}

// NewOpenAI creates the provider. A missing API key is a configuration error
// and no request is made.
func NewOpenAI(cfg OpenAIConfig, log *zap.Logger) (*OpenAIProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, vecerr.New(vecerr.CodeConfigCredentialMissing, "openai api key is not set",
			vecerr.Field("env", "OPENAI_API_KEY"))
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIProvider{
		client: openaisdk.NewClient(opts...),
		dims:   cfg.Dimensions,
		log:    logging.OrNop(log),
	}, nil
}

func (p *OpenAIProvider) Name() string    { return "openai" }
func (p *OpenAIProvider) Dimensions() int { return p.dims }

func (p *OpenAIProvider) Embed(ctx context.Context, text, model string) (Vector, error) {
	done := metrics.TimeEmbedding(p.Name())
	var success bool
	defer func() { done(success) }()

	resp, err := p.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfString: openaisdk.String(text)},
		Model: openaisdk.EmbeddingModel(model),
	})
	if err != nil {
		fields := []vecerr.Attr{vecerr.FieldModel(model)}
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			fields = append(fields, vecerr.Field("status", apiErr.StatusCode))
		}
		return nil, vecerr.Wrap(err, vecerr.CodeEmbeddingCreateFailure, "failed to create embedding", fields...)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, vecerr.New(vecerr.CodeEmbeddingCreateFailure, "embedding response has no data",
			vecerr.FieldModel(model))
	}

	vec, ok := f64to32(resp.Data[0].Embedding)
	if !ok {
		return nil, vecerr.New(vecerr.CodeEmbeddingCreateFailure, "embedding contains non-finite values",
			vecerr.FieldModel(model))
	}
	if len(vec) == 0 {
		return nil, vecerr.New(vecerr.CodeEmbeddingCreateFailure, "embedding is empty", vecerr.FieldModel(model))
	}

	p.log.Debug("embedding created", zap.String("model", model), zap.Int("dimensions", len(vec)))
	success = true
	return vec, nil
}
