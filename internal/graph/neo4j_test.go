package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Gateway = (*Neo4jGateway)(nil)

func TestConvertValueNodes(t *testing.T) {
	driverNode := neo4j.Node{
		ElementId: "4:abc:7",
		Labels:    []string{"Animal"},
		Props:     map[string]any{"name": "dog", "legs": int64(4), "tail": nil},
	}

	got, ok := convertValue(driverNode).(Node)
	require.True(t, ok)
	assert.Equal(t, "4:abc:7", got.ElementID)
	assert.Equal(t, []string{"Animal"}, got.Labels)
	assert.Equal(t, String("dog"), got.Properties.Get("name"))
	assert.Equal(t, Integer(4), got.Properties.Get("legs"))
	assert.Equal(t, Null{}, got.Properties.Get("tail"))

	nested := convertValue(map[string]any{"nodes": []any{driverNode, "x"}}).(map[string]any)
	list := nested["nodes"].([]any)
	_, isNode := list[0].(Node)
	assert.True(t, isNode)
	assert.Equal(t, "x", list[1])

	assert.Equal(t, 0.5, convertValue(0.5))
	assert.Nil(t, convertValue((*neo4j.Node)(nil)))
}

func TestStatementOp(t *testing.T) {
	assert.Equal(t, "match", statementOp("MATCH (n:`A`) RETURN n"))
	assert.Equal(t, "call db.index.vector.queryNodes", statementOp("CALL db.index.vector.queryNodes($i, $k, $v)"))
	assert.Equal(t, "show", statementOp("  SHOW INDEXES YIELD name"))
	assert.Equal(t, "empty", statementOp(""))
}

func TestNewNeo4jGatewayRequiresURI(t *testing.T) {
	_, err := NewNeo4jGateway(Neo4jConfig{}, nil)
	require.Error(t, err)
}

func TestNewNeo4jGatewayDoesNotConnect(t *testing.T) {
	g, err := NewNeo4jGateway(Neo4jConfig{URI: "bolt://127.0.0.1:1", User: "neo4j", Password: "secret"}, nil)
	require.NoError(t, err)
	require.NotNil(t, g)
}
