// Package graph is the boundary to the property graph store: a gateway that
// executes parameterized statements and the value types it returns.
package graph

import "context"

// Gateway executes statements against the graph store. Named parameters may
// be bound to scalars, lists and maps. Implementations do not retry; a
// failure is returned to the caller as a store.query.failure error.
type Gateway interface {
	Execute(ctx context.Context, query string, params map[string]any) ([]Record, error)
}
