package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/apptype"
)

type StepResult struct {
	Name      string `json:"name"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type Report struct {
	SSEURL     string       `json:"sse_url"`
	StartedAt  time.Time    `json:"started_at"`
	DurationMs int64        `json:"duration_ms"`
	Steps      []StepResult `json:"steps"`
	Passed     bool         `json:"passed"`
}

var expectedTools = []string{"create_embeddings", "search_nodes", "index_status", "health_check"}

func main() {
	sseURL := flag.String("sse-url", "http://localhost:8080/sse", "SSE endpoint URL")
	properties := flag.String("properties", "name", "Comma-separated node properties to embed")
	query := flag.String("query", "cat", "Phrase to search for after embedding")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "integration-tester", Version: "dev"}, nil)
	transport := mcp.NewSSEClientTransport(*sseURL, nil)

	start := time.Now()
	report := Report{SSEURL: *sseURL, StartedAt: start}
	steps := make([]StepResult, 0, 8)

	// Connect
	tConn := time.Now()
	connRes := StepResult{Name: "connect"}
	session, err := client.Connect(ctx, transport)
	if err != nil {
		connRes.Error = err.Error()
		connRes.ElapsedMs = elapsedMsSince(tConn)
		report.Steps = append(steps, connRes)
		report.DurationMs = elapsedMsSince(start)
		writeReport(report)
		os.Exit(1)
	}
	defer session.Close()
	connRes.Success = true
	connRes.ElapsedMs = elapsedMsSince(tConn)
	steps = append(steps, connRes)

	props := splitList(*properties)
	steps = append(steps,
		runListTools(ctx, session),
		runTool(ctx, session, "health_check", apptype.HealthArgs{}, func(h apptype.HealthResult) error {
			if !h.GraphReachable {
				return fmt.Errorf("graph unreachable: %s", h.GraphError)
			}
			return nil
		}),
		runTool(ctx, session, "create_embeddings", apptype.CreateEmbeddingsArgs{Properties: props}, func(s apptype.IngestSummary) error {
			if s.Found > 0 && s.Embedded == 0 {
				return fmt.Errorf("no node out of %d was embedded", s.Found)
			}
			return nil
		}),
		runTool(ctx, session, "index_status", apptype.IndexStatusArgs{}, func(s apptype.IndexStatusResult) error {
			if !s.IndexExists || !s.ConstraintExists {
				return fmt.Errorf("index %s exists=%t, constraint %s exists=%t",
					s.IndexName, s.IndexExists, s.ConstraintName, s.ConstraintExists)
			}
			return nil
		}),
		runTool(ctx, session, "search_nodes", apptype.SearchNodesArgs{Query: *query, Properties: props}, func(r apptype.SearchResult) error {
			for i := 1; i < len(r.Records); i++ {
				if r.Records[i].Similarity > r.Records[i-1].Similarity {
					return errors.New("results are not ordered by similarity")
				}
			}
			return nil
		}),
	)

	// finalize report
	report.Steps = steps
	report.DurationMs = elapsedMsSince(start)
	report.Passed = true
	for _, s := range steps {
		if !s.Success {
			report.Passed = false
			break
		}
	}
	writeReport(report)

	if !report.Passed {
		os.Exit(1)
	}
}

func runListTools(ctx context.Context, session *mcp.ClientSession) StepResult {
	t0 := time.Now()
	res := StepResult{Name: "list_tools"}
	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		res.Error = err.Error()
	} else {
		have := make(map[string]bool, len(tools.Tools))
		for _, tool := range tools.Tools {
			have[tool.Name] = true
		}
		var missing []string
		for _, name := range expectedTools {
			if !have[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			res.Error = "missing tools: " + strings.Join(missing, ", ")
		} else {
			res.Success = true
		}
	}
	res.ElapsedMs = elapsedMsSince(t0)
	return res
}

// runTool calls a tool, decodes its structured content into T and applies
// check.
func runTool[T any](ctx context.Context, session *mcp.ClientSession, name string, args any, check func(T) error) StepResult {
	t0 := time.Now()
	res := StepResult{Name: name}

	err := func() error {
		raw, err := json.Marshal(args)
		if err != nil {
			return err
		}
		out, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: json.RawMessage(raw)})
		if err != nil {
			return err
		}
		if out.IsError {
			return errors.New(toolText(out))
		}
		b, err := json.Marshal(out.StructuredContent)
		if err != nil {
			return err
		}
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("decoding structured content: %w", err)
		}
		return check(v)
	}()
	if err != nil {
		res.Error = err.Error()
	} else {
		res.Success = true
	}
	res.ElapsedMs = elapsedMsSince(t0)
	return res
}

func toolText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	if len(parts) == 0 {
		return "tool reported an error"
	}
	return strings.Join(parts, "; ")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeReport(report Report) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}

func elapsedMsSince(t0 time.Time) int64 {
	d := time.Since(t0) / time.Millisecond
	if d <= 0 {
		return 1
	}
	return int64(d)
}
