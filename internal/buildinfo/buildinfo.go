// Package buildinfo holds version metadata injected at link time.
package buildinfo

// Set via -ldflags "-X github.com/ZanzyTHEbar/neo4j-vector-go/internal/buildinfo.Version=..."
var (
	Version   = "dev"
	Revision  = "unknown"
	BuildDate = "unknown"
)
