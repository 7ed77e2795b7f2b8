package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/config"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/embeddings"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph/graphtest"
	"github.com/ZanzyTHEbar/neo4j-vector-go/pkg/vector"
)

// fakeFactory builds services over one shared in-memory graph so that
// consecutive invocations see each other's writes.
type fakeFactory struct {
	gw       *graphtest.Gateway
	provider *embeddings.MockProvider
	calls    int
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{gw: graphtest.New(), provider: embeddings.NewMockProvider(8)}
}

func (f *fakeFactory) build(cfg *config.Config, opts ...vector.Option) (*vector.Service, error) {
	f.calls++
	storeCfg, err := cfg.VectorConfig().StoreConfig()
	if err != nil {
		return nil, err
	}
	storeCfg.Index.Dimensions = 8
	storeCfg.Index.AwaitTimeout = time.Second
	return vector.NewServiceWith(f.gw, f.provider, storeCfg, opts...)
}

func runCLI(t *testing.T, f *fakeFactory, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(f.build, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRootCommand_AllSubcommands(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	output := buf.String()
	for _, sub := range []string{"create-embedding", "search", "serve", "version"} {
		assert.Contains(t, output, sub)
	}
}

func TestSearchCommand_Help(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"search", "--help"})

	require.NoError(t, root.Execute())
	for _, flag := range []string{"--limit", "--threshold", "--format", "--properties"} {
		assert.Contains(t, buf.String(), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"version"}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout.String(), "neo4j-vector "))
}

func TestMissingAPIKeyFailsBeforeNetwork(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("NEO4J_VECTOR_OPENAI_API_KEY", "")
	f := newFakeFactory()

	code, _, stderr := runCLI(t, f, "search", "cat", "--label", "Animal", "--uri", "bolt://127.0.0.1:1")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "OPENAI_API_KEY")
	assert.Zero(t, f.calls)
	assert.Empty(t, f.gw.Statements())
}

func TestMissingLabelIsConfigurationError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	f := newFakeFactory()

	code, _, stderr := runCLI(t, f, "create-embedding", "-p", "name")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "label")
	assert.Zero(t, f.calls)
}

func TestSearchWithoutIndexExitsTwo(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	f := newFakeFactory()

	code, stdout, stderr := runCLI(t, f, "search", "cat", "--label", "Animal")
	assert.Equal(t, exitIndexMissing, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Vector index does not exist.\n", stderr)
	assert.Empty(t, f.provider.Calls())
}

func TestUnknownFormatExitsOne(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	f := newFakeFactory()

	code, _, stderr := runCLI(t, f, "search", "cat", "--label", "Animal", "--format", "xml")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "xml")
	assert.Zero(t, f.calls)
}

func TestCreateEmbeddingThenSearch(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	f := newFakeFactory()
	cat := f.gw.AddNode([]string{"Animal"}, map[string]any{"name": "cat"})
	f.gw.AddNode([]string{"Animal"}, map[string]any{"name": "dog"})
	f.gw.AddNode([]string{"Animal"}, map[string]any{"name": nil})

	code, stdout, stderr := runCLI(t, f, "create-embedding", "--label", "Animal", "-p", "name")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "Embedded 2 of 3 nodes (1 without text, 0 failed).\n", stdout)

	code, stdout, stderr = runCLI(t, f, "search", "cat", "--label", "Animal", "-l", "1", "-p", "name")
	require.Equal(t, exitOK, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, `{records:[{__elementId__:"`+cat+`",name:"cat",__similarity__:`), stdout)

	code, stdout, stderr = runCLI(t, f, "search", "cat", "--label", "Animal", "-f", "console", "-p", "name")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "[name=cat]")
	assert.Contains(t, stdout, "[name=dog]")
}

func TestEmbeddingFailureDuringSearchExitsOne(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	f := newFakeFactory()
	f.gw.AddNode([]string{"Animal"}, map[string]any{"name": "cat"})

	code, _, stderr := runCLI(t, f, "create-embedding", "--label", "Animal", "-p", "name")
	require.Equal(t, exitOK, code, stderr)

	f.provider.FailOn("boom", nil)
	code, _, stderr = runCLI(t, f, "search", "boom", "--label", "Animal", "--verbose")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "mock embedding failure")
}

func TestServeRejectsUnknownTransport(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	f := newFakeFactory()

	code, _, stderr := runCLI(t, f, "serve", "--label", "Animal", "--transport", "carrier-pigeon")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "transport")
}
