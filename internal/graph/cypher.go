package graph

import (
	"strings"

	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// QuoteIdentifier escapes a label, property key or schema name for use in a
// Cypher statement. Embedded backticks are doubled.
func QuoteIdentifier(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", vecerr.New(vecerr.CodeStoreInvalidInput, "identifier must be a non-empty string")
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`", nil
}
