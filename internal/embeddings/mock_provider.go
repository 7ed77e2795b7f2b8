package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"sync"

	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// MockProvider is a deterministic provider for tests. The same text always
// yields the same unit vector; texts registered with FailOn fail.
type MockProvider struct {
	dims int

	mu       sync.Mutex
	failures map[string]error
	vectors  map[string]Vector
	calls    []string
}

// NewMockProvider returns a provider that produces vectors of dims
// components (16 when dims is not positive).
func NewMockProvider(dims int) *MockProvider {
	if dims <= 0 {
		dims = 16
	}
	return &MockProvider{dims: dims, failures: map[string]error{}, vectors: map[string]Vector{}}
}

// FailOn makes Embed fail for text. A nil err uses a generic provider error.
func (m *MockProvider) FailOn(text string, err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = vecerr.New(vecerr.CodeEmbeddingCreateFailure, "mock embedding failure")
	}
	m.failures[text] = err
	return m
}

// Set pins the vector returned for text.
func (m *MockProvider) Set(text string, vec Vector) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[text] = vec
	return m
}

// Calls returns the texts embedded so far, in call order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockProvider) Name() string    { return "mock" }
func (m *MockProvider) Dimensions() int { return m.dims }

func (m *MockProvider) Embed(ctx context.Context, text, model string) (Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, vecerr.Wrap(err, vecerr.CodeEmbeddingCreateFailure, "failed to create embedding", vecerr.FieldModel(model))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	if err, ok := m.failures[text]; ok {
		return nil, err
	}
	if vec, ok := m.vectors[text]; ok {
		out := make(Vector, len(vec))
		copy(out, vec)
		return out, nil
	}
	return hashVector(text, m.dims), nil
}

func hashVector(text string, dims int) Vector {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := float64(h.Sum64()%1_000_003) + 1

	vec := make(Vector, dims)
	var sum float64
	for i := range vec {
		x := math.Sin(seed*float64(i+1))*0.1 + 0.01
		vec[i] = float32(x)
		sum += x * x
	}
	if sum > 0 {
		norm := 1 / math.Sqrt(sum)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) * norm)
		}
	}
	return vec
}
