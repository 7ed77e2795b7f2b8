package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph/graphtest"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

func ingestAnimals(t *testing.T) (*VectorStore, *graphtest.Gateway, map[string]string) {
	t.Helper()
	s, gw, _ := setupTestStore(t)
	ids := map[string]string{}
	for _, name := range []string{"dog", "fish", "cat"} {
		ids[name] = gw.AddNode([]string{"Animal"}, map[string]any{"name": name})
	}
	ctx := context.Background()
	require.NoError(t, s.Index().EnsureIndex(ctx))
	_, err := s.Ingest(ctx, []string{"name"})
	require.NoError(t, err)
	return s, gw, ids
}

func TestSearchRanksByScore(t *testing.T) {
	s, _, ids := ingestAnimals(t)

	result, err := s.Search(context.Background(), "kitten", 3, 0)
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.Equal(t, ids["cat"], result[0].Node.ElementID)
	assert.Equal(t, graph.String("cat"), result[0].Node.Properties.Get("name"))
	assert.Equal(t, []string{"Animal"}, result[0].Node.Labels)
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].Score, result[i].Score)
	}
}

func TestSearchExactMatchScoresOne(t *testing.T) {
	s, _, ids := ingestAnimals(t)

	result, err := s.Search(context.Background(), "cat", 1, 0)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, ids["cat"], result[0].Node.ElementID)
	assert.InDelta(t, 1.0, result[0].Score, 1e-6)
}

func TestSearchThreshold(t *testing.T) {
	s, _, _ := ingestAnimals(t)

	result, err := s.Search(context.Background(), "kitten", 3, 0.9)
	require.NoError(t, err)
	require.Len(t, result, 1)
	for _, m := range result {
		assert.GreaterOrEqual(t, m.Score, 0.9)
	}

	result, err = s.Search(context.Background(), "kitten", 3, 1.1)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSearchNonPositiveTopK(t *testing.T) {
	s, gw, p := setupTestStore(t)

	result, err := s.Search(context.Background(), "cat", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, []string{"cat"}, p.Calls())
	assert.Empty(t, gw.StatementsContaining("queryNodes"))
}

func TestSearchEmbeddingFailureIsFatal(t *testing.T) {
	s, gw, p := setupTestStore(t)
	p.FailOn("cat", nil)

	_, err := s.Search(context.Background(), "cat", 5, 0)
	require.Error(t, err)
	assert.True(t, vecerr.IsEmbeddingCreation(err))
	assert.Empty(t, gw.StatementsContaining("queryNodes"))
}

func TestSearchQueryParameters(t *testing.T) {
	s, gw, _ := ingestAnimals(t)

	_, err := s.Search(context.Background(), "cat", 2, 0.25)
	require.NoError(t, err)

	queries := gw.StatementsContaining("db.index.vector.queryNodes")
	require.Len(t, queries, 1)
	params := queries[0].Params
	assert.Equal(t, "neo4j-vector-index-Animal", params["indexName"])
	assert.Equal(t, 2, params["numberOfNearestNeighbours"])
	assert.Equal(t, 0.25, params["threshold"])
	assert.Equal(t, []float64{1, 0, 0, 0}, params["embeddingValue"])
	assert.Contains(t, queries[0].Query, "WHERE score >= $threshold")
}

func TestSearchMissingIndexIsStoreQueryError(t *testing.T) {
	s, _, _ := setupTestStore(t)

	_, err := s.Search(context.Background(), "cat", 5, 0)
	require.Error(t, err)
	assert.True(t, vecerr.HasCode(err, vecerr.CodeStoreQueryFailure))
}
