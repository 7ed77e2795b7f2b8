package graph

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/logging"
	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/metrics"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// Neo4jConfig holds the connection settings for a Neo4j gateway.
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
	// Database selects a database on multi-database servers; empty uses the
	// server default.
	Database string
}

// Neo4jGateway executes statements through the official Neo4j Go driver.
// The driver pools connections; the gateway itself holds no other state.
type Neo4jGateway struct {
	driver   neo4j.DriverWithContext
	database string
	log      *zap.Logger
}

// NewNeo4jGateway creates a driver for cfg. No connection is opened until the
// first statement runs.
func NewNeo4jGateway(cfg Neo4jConfig, log *zap.Logger) (*Neo4jGateway, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, vecerr.New(vecerr.CodeConfigValidateInvalidValue, "neo4j uri must not be empty")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, vecerr.Wrap(err, vecerr.CodeStoreConnectFailure, "failed to create neo4j driver",
			vecerr.Field("uri", cfg.URI))
	}
	return &Neo4jGateway{driver: driver, database: cfg.Database, log: logging.OrNop(log)}, nil
}

// Execute runs query with params and returns all records eagerly.
func (g *Neo4jGateway) Execute(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	op := statementOp(query)
	done := metrics.TimeQuery(op)
	var success bool
	defer func() { done(success) }()

	opts := []neo4j.ExecuteQueryConfigurationOption{}
	if g.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(g.database))
	}

	g.log.Debug("executing statement", zap.String("op", op), zap.String("query", query))
	res, err := neo4j.ExecuteQuery(ctx, g.driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, vecerr.Wrap(err, vecerr.CodeStoreQueryFailure, "failed to execute statement",
			vecerr.Field("op", op))
	}

	records := make([]Record, 0, len(res.Records))
	for _, rec := range res.Records {
		values := make([]any, len(rec.Values))
		for i, v := range rec.Values {
			values[i] = convertValue(v)
		}
		records = append(records, Record{Keys: rec.Keys, Values: values})
	}
	success = true
	return records, nil
}

// VerifyConnectivity checks that the server is reachable with the configured
// credentials.
func (g *Neo4jGateway) VerifyConnectivity(ctx context.Context) error {
	if err := g.driver.VerifyConnectivity(ctx); err != nil {
		return vecerr.Wrap(err, vecerr.CodeStoreConnectFailure, "neo4j is not reachable")
	}
	return nil
}

// Close releases the driver's connection pool.
func (g *Neo4jGateway) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

// convertValue replaces driver nodes with graph.Node, descending into lists
// and maps. Other values pass through unchanged.
func convertValue(v any) any {
	switch x := v.(type) {
	case neo4j.Node:
		return nodeFromDriver(x)
	case *neo4j.Node:
		if x == nil {
			return nil
		}
		return nodeFromDriver(*x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = convertValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = convertValue(e)
		}
		return out
	default:
		return v
	}
}

func nodeFromDriver(n neo4j.Node) Node {
	labels := make([]string, len(n.Labels))
	copy(labels, n.Labels)
	return Node{
		ElementID:  n.ElementId,
		Labels:     labels,
		Properties: PropertiesFromMap(n.Props),
	}
}

// statementOp names a statement for metrics by its leading clause, plus the
// procedure name for CALL statements.
func statementOp(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "empty"
	}
	op := strings.ToLower(fields[0])
	if op == "call" && len(fields) > 1 {
		proc := fields[1]
		if i := strings.IndexByte(proc, '('); i >= 0 {
			proc = proc[:i]
		}
		return op + " " + proc
	}
	return op
}
