package embeddings

import (
	"context"
	"math"
)

// Vector is a dense embedding.
type Vector []float32

// Float64s converts the vector for drivers and encoders that want float64.
func (v Vector) Float64s() []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = float64(v[i])
	}
	return out
}

// Provider defines a simple embeddings provider interface.
// Implementations should be concurrency-safe.
type Provider interface {
	// Name returns the provider name (e.g., "openai", "mock").
	Name() string
	// Dimensions returns the embedding dimensionality this provider produces,
	// or 0 when it depends on the model.
	Dimensions() int
	// Embed returns the embedding of text computed by model. Every failure is
	// an embedding.create.failure error.
	Embed(ctx context.Context, text, model string) (Vector, error)
}

func f64to32(v []float64) (Vector, bool) {
	out := make(Vector, len(v))
	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return nil, false
		}
		out[i] = float32(v[i])
	}
	return out, true
}
