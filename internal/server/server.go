package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/apptype"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/buildinfo"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/logging"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/metrics"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
	"github.com/ZanzyTHEbar/neo4j-vector-go/pkg/vector"
)

const (
	serverName   = "neo4j-vector"
	defaultLimit = 5
)

// MCPServer exposes embedding creation and similarity search as MCP tools.
type MCPServer struct {
	server *mcp.Server
	svc    *vector.Service
	log    *zap.Logger
}

// NewMCPServer creates a new MCP server
func NewMCPServer(svc *vector.Service, log *zap.Logger) *MCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: buildinfo.Version,
	}, nil)

	mcpServer := &MCPServer{
		server: server,
		svc:    svc,
		log:    logging.OrNop(log),
	}
	mcpServer.setupToolHandlers()
	return mcpServer
}

func mustSchema[T any](name string) *jsonschema.Schema {
	schema, err := jsonschema.For[T]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for %s: %v", name, err))
	}
	return schema
}

// setupToolHandlers registers all MCP tools
func (s *MCPServer) setupToolHandlers() {
	mcp.AddTool(s.server, &mcp.Tool{
		Annotations:  &mcp.ToolAnnotations{Title: "Create Embeddings"},
		Name:         "create_embeddings",
		Title:        "Create Embeddings",
		Description:  "Embed the concatenated properties of every node with the configured label and store the vectors on the nodes. Creates the similarity index when missing.",
		InputSchema:  mustSchema[apptype.CreateEmbeddingsArgs]("CreateEmbeddingsArgs"),
		OutputSchema: mustSchema[apptype.IngestSummary]("IngestSummary"),
	}, s.handleCreateEmbeddings)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "search_nodes",
		Title:        "Search Nodes",
		Description:  "Find the nodes most similar to a free-text phrase.",
		InputSchema:  mustSchema[apptype.SearchNodesArgs]("SearchNodesArgs"),
		OutputSchema: mustSchema[apptype.SearchResult]("SearchResult"),
	}, s.handleSearchNodes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "index_status",
		Title:        "Index Status",
		Description:  "Report whether the similarity index and the uniqueness constraint exist.",
		InputSchema:  mustSchema[apptype.IndexStatusArgs]("IndexStatusArgs"),
		OutputSchema: mustSchema[apptype.IndexStatusResult]("IndexStatusResult"),
	}, s.handleIndexStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "health_check",
		Title:        "Health Check",
		Description:  "Returns server and configuration information.",
		InputSchema:  mustSchema[apptype.HealthArgs]("HealthArgs"),
		OutputSchema: mustSchema[apptype.HealthResult]("HealthResult"),
	}, s.handleHealth)
}

func (s *MCPServer) handleCreateEmbeddings(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.CreateEmbeddingsArgs],
) (*mcp.CallToolResultFor[apptype.IngestSummary], error) {
	done := metrics.TimeTool("create_embeddings")
	var success bool
	defer func() { done(success) }()

	properties := params.Arguments.Properties
	if len(properties) == 0 {
		return nil, vecerr.New(vecerr.CodeStoreInvalidInput, "properties must not be empty")
	}

	report, err := s.svc.CreateEmbeddings(ctx, properties)
	if err != nil {
		s.log.Warn("create_embeddings failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	success = true

	summary := apptype.NewIngestSummary(report)
	return &mcp.CallToolResultFor[apptype.IngestSummary]{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Embedded %d of %d nodes (%d without text, %d failed)",
					summary.Embedded, summary.Found, summary.SkippedEmpty, summary.Failed),
			},
		},
		StructuredContent: summary,
	}, nil
}

func (s *MCPServer) handleSearchNodes(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.SearchNodesArgs],
) (*mcp.CallToolResultFor[apptype.SearchResult], error) {
	done := metrics.TimeTool("search_nodes")
	var success bool
	defer func() { done(success) }()

	limit := params.Arguments.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	result, err := s.svc.Search(ctx, params.Arguments.Query, limit, params.Arguments.Threshold)
	if err != nil {
		if vecerr.IsIndexMissing(err) {
			return nil, errors.New("vector index does not exist; run create_embeddings first")
		}
		s.log.Warn("search_nodes failed", zap.Error(err))
		return nil, fmt.Errorf("search failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.SearchResult]{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Found %d similar nodes", len(result)),
			},
		},
		StructuredContent: apptype.NewSearchResult(result, params.Arguments.Properties),
	}, nil
}

func (s *MCPServer) handleIndexStatus(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.IndexStatusArgs],
) (*mcp.CallToolResultFor[apptype.IndexStatusResult], error) {
	done := metrics.TimeTool("index_status")
	var success bool
	defer func() { done(success) }()

	status, err := s.svc.IndexStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("index status failed: %w", err)
	}
	success = true

	text := "index missing"
	if status.IndexExists {
		text = "index online"
	}
	return &mcp.CallToolResultFor[apptype.IndexStatusResult]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		StructuredContent: apptype.IndexStatusResult{
			Label:            status.Label,
			IndexName:        status.IndexName,
			IndexExists:      status.IndexExists,
			ConstraintName:   status.ConstraintName,
			ConstraintExists: status.ConstraintExists,
		},
	}, nil
}

func (s *MCPServer) handleHealth(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.HealthArgs],
) (*mcp.CallToolResultFor[apptype.HealthResult], error) {
	done := metrics.TimeTool("health_check")
	defer func() { done(true) }()

	cfg := s.svc.Config()
	res := apptype.HealthResult{
		Name:           serverName,
		Version:        buildinfo.Version,
		Revision:       buildinfo.Revision,
		BuildDate:      buildinfo.BuildDate,
		Label:          cfg.Label,
		Model:          cfg.Model,
		EmbeddingDims:  cfg.Index.Dimensions,
		GraphReachable: true,
	}
	text := "ok"
	if err := s.svc.Ping(ctx); err != nil {
		res.GraphReachable = false
		res.GraphError = err.Error()
		text = "graph unreachable"
	}
	return &mcp.CallToolResultFor[apptype.HealthResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: text}},
		StructuredContent: res,
	}, nil
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *MCPServer) Run(ctx context.Context) error {
	transport := mcp.NewStdioTransport()
	return s.server.Run(ctx, transport)
}

// RunSSE starts the MCP server over SSE at the given address and endpoint
func (s *MCPServer) RunSSE(ctx context.Context, addr string, endpoint string) error {
	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server { return s.server })
	mux := http.NewServeMux()
	mux.Handle(endpoint, handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("SSE MCP server listening", zap.String("addr", addr), zap.String("endpoint", endpoint))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return vecerr.Wrap(err, vecerr.CodeServerStartFailure, "sse server failed", vecerr.Field("addr", addr))
	}
	return nil
}
