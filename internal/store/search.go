package store

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/graph"
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// Match is one search hit.
type Match struct {
	Node  graph.Node
	Score float64
}

// SimilarityResult holds matches ordered by descending score. Ties keep the
// order the graph returned them in.
type SimilarityResult []Match

// Search embeds phrase and returns up to topK nodes whose score is at least
// threshold. A topK of zero or less returns an empty result without querying
// the graph; the phrase is still embedded so provider failures surface.
func (s *VectorStore) Search(ctx context.Context, phrase string, topK int, threshold float64) (SimilarityResult, error) {
	vec, err := s.provider.Embed(ctx, phrase, s.cfg.Model)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		return SimilarityResult{}, nil
	}

	name := s.index.IndexName()
	records, err := s.gw.Execute(ctx, queryNodesStmt, map[string]any{
		"indexName":                 name,
		"numberOfNearestNeighbours": topK,
		"embeddingValue":            vec.Float64s(),
		"threshold":                 threshold,
	})
	if err != nil {
		return nil, vecerr.With(err, vecerr.FieldIndex(name))
	}

	result := make(SimilarityResult, 0, len(records))
	for _, rec := range records {
		node, err := rec.Node("node")
		if err != nil {
			return nil, err
		}
		score, err := rec.Float("score")
		if err != nil {
			return nil, err
		}
		result = append(result, Match{Node: node, Score: score})
	}
	sortByScore(result)

	s.log.Debug("search completed", zap.Int("matches", len(result)), zap.Int("top_k", topK),
		zap.Float64("threshold", threshold))
	return result, nil
}

func sortByScore(r SimilarityResult) {
	sort.SliceStable(r, func(i, j int) bool { return r[i].Score > r[j].Score })
}
