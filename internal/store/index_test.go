package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph/graphtest"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

func TestEnsureIndexCreatesConstraintAndIndex(t *testing.T) {
	s, gw, _ := setupTestStore(t)
	ctx := context.Background()

	exists, err := s.Index().IndexExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Index().EnsureIndex(ctx))

	assert.True(t, gw.HasConstraint("Animal_unique_idx"))
	idx, ok := gw.Index("neo4j-vector-index-Animal")
	require.True(t, ok)
	assert.Equal(t, graphtest.Index{
		Name:       "neo4j-vector-index-Animal",
		Label:      "Animal",
		Property:   "embedding",
		Dimensions: testDims,
		Similarity: "cosine",
	}, idx)

	awaits := gw.StatementsContaining("db.awaitIndex")
	require.Len(t, awaits, 1)
	assert.Equal(t, int64(5), awaits[0].Params["timeoutSeconds"])

	exists, err = s.Index().IndexExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEnsureIndexIsIdempotent(t *testing.T) {
	s, gw, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Index().EnsureIndex(ctx))
	before := len(gw.Statements())

	require.NoError(t, s.Index().EnsureIndex(ctx))
	second := gw.Statements()[before:]
	require.NotEmpty(t, second)
	for _, st := range second {
		assert.True(t, strings.HasPrefix(st.Query, "SHOW "), st.Query)
	}
}

func TestEnsureIndexKeepsExistingConstraint(t *testing.T) {
	s, gw, _ := setupTestStore(t)
	gw.AddConstraint("Animal_unique_idx")

	require.NoError(t, s.Index().EnsureIndex(context.Background()))
	assert.Empty(t, gw.StatementsContaining("CREATE CONSTRAINT"))
	assert.Len(t, gw.StatementsContaining("createNodeIndex"), 1)
}

func TestEnsureIndexFailureIsStoreQueryError(t *testing.T) {
	s, gw, _ := setupTestStore(t)
	gw.FailOn("createNodeIndex", nil)

	err := s.Index().EnsureIndex(context.Background())
	require.Error(t, err)
	assert.True(t, vecerr.HasCode(err, vecerr.CodeStoreQueryFailure))
	assert.Equal(t, "neo4j-vector-index-Animal", vecerr.FieldsOf(err)["index"])
	assert.Empty(t, gw.StatementsContaining("db.awaitIndex"))
}

func TestIndexExistsOnlyReads(t *testing.T) {
	s, gw, _ := setupTestStore(t)

	_, err := s.Index().IndexExists(context.Background())
	require.NoError(t, err)

	stmts := gw.Statements()
	require.Len(t, stmts, 1)
	assert.True(t, strings.HasPrefix(stmts[0].Query, "SHOW INDEXES"))
	assert.Equal(t, "neo4j-vector-index-Animal", stmts[0].Params["name"])
}
