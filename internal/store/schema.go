package store

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
)

const (
	showConstraintStmt = "SHOW CONSTRAINTS YIELD name WHERE name = $name RETURN count(*) > 0 AS exists"
	showIndexStmt      = "SHOW INDEXES YIELD name WHERE name = $name RETURN count(*) > 0 AS exists"

	createIndexStmt = "CALL db.index.vector.createNodeIndex($indexName, $label, $embeddingProperty, $embeddingDimension, $distanceType)"
	awaitIndexStmt  = "CALL db.awaitIndex($indexName, $timeoutSeconds)"

	queryNodesStmt = "CALL db.index.vector.queryNodes($indexName, $numberOfNearestNeighbours, $embeddingValue) " +
		"YIELD node, score WHERE score >= $threshold RETURN node, score"
)

// Schema names and labels cannot be parameters, so these statements embed
// quoted identifiers.

func createConstraintStmt(label string) (string, error) {
	name, err := graph.QuoteIdentifier(ConstraintName(label))
	if err != nil {
		return "", err
	}
	l, err := graph.QuoteIdentifier(label)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE CONSTRAINT %s IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE", name, l), nil
}

func projectStmt(label string, properties []string) (string, error) {
	l, err := graph.QuoteIdentifier(label)
	if err != nil {
		return "", err
	}
	fields := make([]string, 0, len(properties))
	for _, p := range properties {
		q, err := graph.QuoteIdentifier(p)
		if err != nil {
			return "", err
		}
		fields = append(fields, "."+q)
	}
	return fmt.Sprintf("MATCH (n:%s) RETURN elementId(n) AS elementId, n {%s} AS properties",
		l, strings.Join(fields, ", ")), nil
}

func setVectorsStmt(label string) (string, error) {
	l, err := graph.QuoteIdentifier(label)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("UNWIND $rows AS row MATCH (n:%s) WHERE elementId(n) = row.elementId "+
		"WITH row, n CALL db.create.setNodeVectorProperty(n, $embeddingProperty, row.embedding) "+
		"RETURN count(n) AS updated", l), nil
}
