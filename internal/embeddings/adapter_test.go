package embeddings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

func TestWithDimensions(t *testing.T) {
	base := NewMockProvider(4)

	same := WithDimensions(base, 0)
	assert.Same(t, base, same)

	guarded := WithDimensions(base, 4)
	vec, err := guarded.Embed(context.Background(), "cat", "m")
	require.NoError(t, err)
	assert.Len(t, vec, 4)
	assert.Equal(t, "mock", guarded.Name())

	_, err = WithDimensions(base, 8).Embed(context.Background(), "cat", "m")
	require.Error(t, err)
	assert.True(t, vecerr.IsEmbeddingCreation(err))
	assert.Equal(t, 8, vecerr.FieldsOf(err)["expected"])
	assert.Equal(t, 4, vecerr.FieldsOf(err)["actual"])
}

func TestMockProviderDeterministic(t *testing.T) {
	m := NewMockProvider(8)
	a, err := m.Embed(context.Background(), "cat", "m")
	require.NoError(t, err)
	b, err := m.Embed(context.Background(), "cat", "m")
	require.NoError(t, err)
	c, err := m.Embed(context.Background(), "dog", "m")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	var norm float64
	for _, x := range a {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, norm, 1e-4)
	assert.Equal(t, []string{"cat", "cat", "dog"}, m.Calls())
}

func TestMockProviderFailuresAndPins(t *testing.T) {
	m := NewMockProvider(2).FailOn("bad", nil).Set("pinned", Vector{1, 0})

	_, err := m.Embed(context.Background(), "bad", "m")
	require.Error(t, err)
	assert.True(t, vecerr.IsEmbeddingCreation(err))

	vec, err := m.Embed(context.Background(), "pinned", "m")
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 0}, vec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Embed(ctx, "x", "m")
	require.Error(t, err)
	assert.True(t, vecerr.IsEmbeddingCreation(err))
}
