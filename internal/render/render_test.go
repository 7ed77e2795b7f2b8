package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/apptype"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/store"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

func sampleResult() store.SimilarityResult {
	return store.SimilarityResult{
		{
			Node: graph.Node{
				ElementID: "4:db:1",
				Labels:    []string{"Animal"},
				Properties: graph.Properties{
					"name": graph.String("cat"),
					"legs": graph.Number(4),
				},
			},
			Score: 0.75,
		},
		{
			Node: graph.Node{
				ElementID:  "4:db:2",
				Labels:     []string{"Animal", "Pet"},
				Properties: graph.Properties{"name": graph.String("dog")},
			},
			Score: 0.5,
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatParameter, f)

	f, err = ParseFormat("Console")
	require.NoError(t, err)
	assert.Equal(t, FormatConsole, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
	assert.True(t, vecerr.HasCode(err, vecerr.CodeCLIInputInvalid))
}

func TestWriteParameter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatParameter, sampleResult(), []string{"name", "legs", "missing"}))
	assert.Equal(t,
		`{records:[{__elementId__:"4:db:1",name:"cat",legs:4,__similarity__:0.75},{__elementId__:"4:db:2",name:"dog",__similarity__:0.5}]}`+"\n",
		buf.String())
}

func TestWriteParameterWithoutProperties(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatParameter, sampleResult()[:1], nil))
	assert.Equal(t, `{records:[{__elementId__:"4:db:1",__similarity__:0.75}]}`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatParameter, nil, nil))
	assert.Equal(t, "{records:[]}\n", buf.String())
}

func TestWriteConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatConsole, sampleResult(), []string{"name"}))

	out := buf.String()
	assert.Contains(t, out, "Labels")
	assert.Contains(t, out, "Properties")
	assert.Contains(t, out, "Similarity")
	assert.Contains(t, out, "[Animal, Pet]")
	assert.Contains(t, out, "[name=cat]")
	assert.Contains(t, out, "0.75")
	assert.NotContains(t, out, "legs")
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := truncate(long, maxPropertiesWidth)
	assert.Len(t, got, maxPropertiesWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short", truncate("short", maxPropertiesWidth))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResult(), []string{"name", "legs"}))

	var got apptype.SearchResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Records, 2)
	assert.Equal(t, "4:db:1", got.Records[0].Node.ElementID)
	assert.Equal(t, map[string]any{"name": "cat", "legs": 4.0}, got.Records[0].Node.Properties)
	assert.Equal(t, 0.75, got.Records[0].Similarity)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleResult(), []string{"name"}))

	var got apptype.SearchResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Records, 2)
	assert.Equal(t, []string{"Animal", "Pet"}, got.Records[1].Node.Labels)
	assert.Equal(t, "dog", got.Records[1].Node.Properties["name"])
}

func TestMapKey(t *testing.T) {
	assert.Equal(t, "name", mapKey("name"))
	assert.Equal(t, "`first name`", mapKey("first name"))
}
