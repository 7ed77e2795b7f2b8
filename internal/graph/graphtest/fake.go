// Package graphtest provides an in-memory graph.Gateway that understands the
// statements issued by the vector store: schema inspection and creation,
// property projection, batched vector writes and nearest-neighbour queries.
package graphtest

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// Statement is one executed statement.
type Statement struct {
	Query  string
	Params map[string]any
}

// Index describes a vector index created through the fake.
type Index struct {
	Name       string
	Label      string
	Property   string
	Dimensions int
	Similarity string
}

type node struct {
	id     string
	labels []string
	props  map[string]any
}

// Gateway is a goroutine-safe in-memory graph.
type Gateway struct {
	mu          sync.Mutex
	nodes       []*node
	constraints map[string]bool
	indexes     map[string]Index
	statements  []Statement
	failures    map[string]error
	nextID      int
}

var _ graph.Gateway = (*Gateway)(nil)

func New() *Gateway {
	return &Gateway{
		constraints: map[string]bool{},
		indexes:     map[string]Index{},
		failures:    map[string]error{},
	}
}

// AddNode creates a node and returns its element id.
func (g *Gateway) AddNode(labels []string, props map[string]any) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	id := fmt.Sprintf("4:fake:%d", g.nextID)
	cp := make(map[string]any, len(props))
	for k, v := range props {
		cp[k] = v
	}
	g.nodes = append(g.nodes, &node{id: id, labels: append([]string(nil), labels...), props: cp})
	return id
}

// AddIndex registers an online vector index without going through a
// statement.
func (g *Gateway) AddIndex(idx Index) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.indexes[idx.Name] = idx
}

// AddConstraint registers a constraint name.
func (g *Gateway) AddConstraint(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.constraints[name] = true
}

// FailOn makes every statement containing fragment fail with err, or with a
// store.query.failure when err is nil.
func (g *Gateway) FailOn(fragment string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		err = vecerr.New(vecerr.CodeStoreQueryFailure, "injected failure", vecerr.Field("fragment", fragment))
	}
	g.failures[fragment] = err
}

// Statements returns every statement executed so far.
func (g *Gateway) Statements() []Statement {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Statement(nil), g.statements...)
}

// StatementsContaining filters Statements by a query fragment.
func (g *Gateway) StatementsContaining(fragment string) []Statement {
	var out []Statement
	for _, s := range g.Statements() {
		if strings.Contains(s.Query, fragment) {
			out = append(out, s)
		}
	}
	return out
}

// Vector returns the vector stored on a node property, if any.
func (g *Gateway) Vector(elementID, property string) ([]float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range g.nodes {
		if n.id == elementID {
			v, ok := n.props[property].([]float64)
			return v, ok
		}
	}
	return nil, false
}

// Index returns a created index by name.
func (g *Gateway) Index(name string) (Index, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx, ok := g.indexes[name]
	return idx, ok
}

// HasConstraint reports whether a constraint exists.
func (g *Gateway) HasConstraint(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.constraints[name]
}

var (
	labelPattern      = regexp.MustCompile("\\(n:`((?:[^`]|``)*)`\\)")
	projectionPattern = regexp.MustCompile("\\.`((?:[^`]|``)*)`")
	constraintPattern = regexp.MustCompile("CREATE CONSTRAINT `((?:[^`]|``)*)`")
)

func (g *Gateway) Execute(ctx context.Context, query string, params map[string]any) ([]graph.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, vecerr.Wrap(err, vecerr.CodeStoreQueryFailure, "failed to execute statement")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.statements = append(g.statements, Statement{Query: query, Params: params})
	for fragment, err := range g.failures {
		if strings.Contains(query, fragment) {
			return nil, err
		}
	}

	switch {
	case strings.HasPrefix(query, "SHOW CONSTRAINTS"):
		name, _ := params["name"].(string)
		return []graph.Record{graph.NewRecord("exists", g.constraints[name])}, nil
	case strings.HasPrefix(query, "SHOW INDEXES"):
		name, _ := params["name"].(string)
		_, ok := g.indexes[name]
		return []graph.Record{graph.NewRecord("exists", ok)}, nil
	case strings.HasPrefix(query, "CREATE CONSTRAINT"):
		m := constraintPattern.FindStringSubmatch(query)
		if m == nil {
			return nil, unsupported(query)
		}
		g.constraints[unquote(m[1])] = true
		return nil, nil
	case strings.Contains(query, "db.index.vector.createNodeIndex"):
		return nil, g.createIndex(params)
	case strings.Contains(query, "db.awaitIndex"):
		name, _ := params["indexName"].(string)
		if _, ok := g.indexes[name]; !ok {
			return nil, vecerr.New(vecerr.CodeStoreQueryFailure, "no such index", vecerr.FieldIndex(name))
		}
		return nil, nil
	case strings.Contains(query, "db.create.setNodeVectorProperty"):
		return g.setVectors(query, params)
	case strings.Contains(query, "db.index.vector.queryNodes"):
		return g.queryNodes(params)
	case strings.HasPrefix(query, "MATCH"):
		return g.project(query)
	default:
		return nil, unsupported(query)
	}
}

func (g *Gateway) createIndex(params map[string]any) error {
	name, _ := params["indexName"].(string)
	if _, ok := g.indexes[name]; ok {
		return vecerr.New(vecerr.CodeStoreQueryFailure, "an equivalent index already exists", vecerr.FieldIndex(name))
	}
	idx := Index{Name: name}
	idx.Label, _ = params["label"].(string)
	idx.Property, _ = params["embeddingProperty"].(string)
	idx.Similarity, _ = params["distanceType"].(string)
	switch d := params["embeddingDimension"].(type) {
	case int:
		idx.Dimensions = d
	case int64:
		idx.Dimensions = int(d)
	}
	g.indexes[name] = idx
	return nil
}

func (g *Gateway) project(query string) ([]graph.Record, error) {
	lm := labelPattern.FindStringSubmatch(query)
	if lm == nil {
		return nil, unsupported(query)
	}
	label := unquote(lm[1])

	var props []string
	if open := strings.Index(query, "n {"); open >= 0 {
		end := strings.Index(query[open:], "}")
		if end < 0 {
			return nil, unsupported(query)
		}
		for _, m := range projectionPattern.FindAllStringSubmatch(query[open:open+end], -1) {
			props = append(props, unquote(m[1]))
		}
	}

	var out []graph.Record
	for _, n := range g.nodes {
		if !hasLabel(n, label) {
			continue
		}
		projected := make(map[string]any, len(props))
		for _, p := range props {
			projected[p] = n.props[p]
		}
		out = append(out, graph.NewRecord("elementId", n.id, "properties", projected))
	}
	return out, nil
}

func (g *Gateway) setVectors(query string, params map[string]any) ([]graph.Record, error) {
	lm := labelPattern.FindStringSubmatch(query)
	if lm == nil {
		return nil, unsupported(query)
	}
	label := unquote(lm[1])
	property, _ := params["embeddingProperty"].(string)
	rows, ok := params["rows"].([]map[string]any)
	if !ok {
		return nil, vecerr.New(vecerr.CodeStoreQueryFailure, "rows parameter must be a list of maps")
	}

	var updated int64
	for _, row := range rows {
		id, _ := row["elementId"].(string)
		vec, ok := row["embedding"].([]float64)
		if !ok {
			return nil, vecerr.New(vecerr.CodeStoreQueryFailure, "embedding must be a list of floats", vecerr.FieldElementID(id))
		}
		for _, n := range g.nodes {
			if n.id == id && hasLabel(n, label) {
				n.props[property] = append([]float64(nil), vec...)
				updated++
			}
		}
	}
	return []graph.Record{graph.NewRecord("updated", updated)}, nil
}

func (g *Gateway) queryNodes(params map[string]any) ([]graph.Record, error) {
	name, _ := params["indexName"].(string)
	idx, ok := g.indexes[name]
	if !ok {
		return nil, vecerr.New(vecerr.CodeStoreQueryFailure, "there is no such vector schema index", vecerr.FieldIndex(name))
	}
	k := 0
	switch v := params["numberOfNearestNeighbours"].(type) {
	case int:
		k = v
	case int64:
		k = int(v)
	}
	query, _ := params["embeddingValue"].([]float64)
	threshold, _ := params["threshold"].(float64)

	type hit struct {
		n     *node
		score float64
		pos   int
	}
	var hits []hit
	for i, n := range g.nodes {
		if !hasLabel(n, idx.Label) {
			continue
		}
		vec, ok := n.props[idx.Property].([]float64)
		if !ok || len(vec) != len(query) {
			continue
		}
		hits = append(hits, hit{n: n, score: similarity(idx.Similarity, query, vec), pos: i})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if k < len(hits) {
		hits = hits[:k]
	}
	// The neighbour set comes back in storage order, not by score.
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var out []graph.Record
	for _, h := range hits {
		if h.score < threshold {
			continue
		}
		out = append(out, graph.NewRecord("node", toGraphNode(h.n), "score", h.score))
	}
	return out, nil
}

func similarity(kind string, a, b []float64) float64 {
	if strings.EqualFold(kind, "euclidean") {
		var d float64
		for i := range a {
			diff := a[i] - b[i]
			d += diff * diff
		}
		return 1 / (1 + d)
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return (1 + dot/(math.Sqrt(na)*math.Sqrt(nb))) / 2
}

func toGraphNode(n *node) graph.Node {
	props := make(map[string]any, len(n.props))
	for k, v := range n.props {
		props[k] = v
	}
	return graph.Node{
		ElementID:  n.id,
		Labels:     append([]string(nil), n.labels...),
		Properties: graph.PropertiesFromMap(props),
	}
}

func hasLabel(n *node, label string) bool {
	for _, l := range n.labels {
		if l == label {
			return true
		}
	}
	return false
}

func unquote(s string) string {
	return strings.ReplaceAll(s, "``", "`")
}

func unsupported(query string) error {
	return vecerr.New(vecerr.CodeStoreQueryFailure, "statement not supported by the in-memory graph",
		vecerr.Field("query", query))
}
