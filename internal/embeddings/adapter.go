package embeddings

import (
	"context"

	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// dimensionGuard wraps a Provider and rejects vectors whose length differs
// from the similarity index dimension. Padding or truncating would store
// vectors the index cannot compare meaningfully.
type dimensionGuard struct {
	base Provider
	dims int
}

// WithDimensions returns a Provider that fails with embedding.create.failure
// whenever base produces a vector that is not exactly dims long. If dims is
// not positive, base is returned unchanged.
func WithDimensions(base Provider, dims int) Provider {
	if base == nil || dims <= 0 {
		return base
	}
	return &dimensionGuard{base: base, dims: dims}
}

func (p *dimensionGuard) Name() string    { return p.base.Name() }
func (p *dimensionGuard) Dimensions() int { return p.dims }

func (p *dimensionGuard) Embed(ctx context.Context, text, model string) (Vector, error) {
	vec, err := p.base.Embed(ctx, text, model)
	if err != nil {
		return nil, err
	}
	if len(vec) != p.dims {
		return nil, vecerr.New(vecerr.CodeEmbeddingCreateFailure, "embedding dimension does not match the index",
			vecerr.FieldModel(model), vecerr.Field("expected", p.dims), vecerr.Field("actual", len(vec)))
	}
	return vec, nil
}
