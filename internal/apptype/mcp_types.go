package apptype

// CreateEmbeddingsArgs represents the arguments for the create_embeddings tool
type CreateEmbeddingsArgs struct {
	Properties []string `json:"properties" jsonschema:"Node properties whose values are concatenated into the embedding input, in this order."`
}

// SearchNodesArgs represents the arguments for the search_nodes tool
type SearchNodesArgs struct {
	Query      string   `json:"query" jsonschema:"Free-text phrase to search for."`
	Limit      int      `json:"limit,omitempty" jsonschema:"Maximum number of nodes to return (default 5)."`
	Threshold  float64  `json:"threshold,omitempty" jsonschema:"Minimum similarity score between 0 and 1 (default 0)."`
	Properties []string `json:"properties,omitempty" jsonschema:"Node properties to include in each result."`
}

// IndexStatusArgs represents the arguments for the index_status tool
type IndexStatusArgs struct{}

type IndexStatusResult struct {
	Label            string `json:"label"`
	IndexName        string `json:"indexName"`
	IndexExists      bool   `json:"indexExists"`
	ConstraintName   string `json:"constraintName"`
	ConstraintExists bool   `json:"constraintExists"`
}

// Health
type HealthArgs struct{}

type HealthResult struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	Revision       string `json:"revision"`
	BuildDate      string `json:"buildDate"`
	Label          string `json:"label"`
	Model          string `json:"model"`
	EmbeddingDims  int    `json:"embeddingDims"`
	GraphReachable bool   `json:"graphReachable"`
	GraphError     string `json:"graphError,omitempty"`
}
