package memory

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/BrainDriveAI/memory/pkg/common"
)

const (
	bm25K1      = 1.5
	bm25B       = 0.75
	keywordTopK = 3
)

const edgeTimestampLayout = "2006-01-02 15:04:05"

var wordPattern = regexp.MustCompile(`\w+`)

func tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// bm25Scores computes the BM25 score of the query against each document.
func bm25Scores(query string, docs [][]string) []float64 {
	n := len(docs)
	scores := make([]float64, n)
	if n == 0 {
		return scores
	}

	totalLen := 0
	docFreq := make(map[string]int)
	termFreqs := make([]map[string]int, n)
	for i, doc := range docs {
		totalLen += len(doc)
		tf := make(map[string]int, len(doc))
		for _, term := range doc {
			tf[term]++
		}
		termFreqs[i] = tf
		for term := range tf {
			docFreq[term]++
		}
	}
	avgLen := float64(totalLen) / float64(n)
	if avgLen == 0 {
		return scores
	}

	for _, term := range tokenize(query) {
		df, ok := docFreq[term]
		if !ok {
			continue
		}
		idf := math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))
		for i := range docs {
			tf := float64(termFreqs[i][term])
			if tf == 0 {
				continue
			}
			norm := tf * (bm25K1 + 1) / (tf + bm25K1*(1-bm25B+bm25B*float64(len(docs[i]))/avgLen))
			scores[i] += idf * norm
		}
	}
	return scores
}

func formatEdgeTimestamp(ts *time.Time) string {
	if ts == nil {
		return "unknown"
	}
	return ts.Format(edgeTimestampLayout)
}

func formatEdgeWithTimestamps(rel common.Relation) string {
	return fmt.Sprintf("%s → %s → %s (created: %s, updated: %s)",
		rel.Source,
		displayName(rel.Relationship),
		displayName(rel.Destination),
		formatEdgeTimestamp(rel.CreatedAt),
		formatEdgeTimestamp(rel.UpdatedAt),
	)
}

func formatEdge(rel common.Relation) string {
	return fmt.Sprintf("%s → %s → %s",
		rel.Source,
		displayName(rel.Relationship),
		displayName(rel.Destination),
	)
}

// keywordMatch is one reranked edge text with its match confidence, the
// BM25 score normalized against the best match. Recency-fallback results
// carry no score.
type keywordMatch struct {
	Text  string
	Score float64
}

// rerankGraphEdges reorders graph edges by BM25 keyword relevance to the
// query and returns the top formatted edge texts with their normalized
// scores. Edges are first sorted most-recent-first; when the query shares
// no vocabulary with any edge the most recent ones are returned without
// timestamps or scores.
func rerankGraphEdges(query string, relations []common.Relation, topK int) []keywordMatch {
	if len(relations) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = keywordTopK
	}

	sorted := make([]common.Relation, len(relations))
	copy(sorted, relations)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].UpdatedAt, sorted[j].UpdatedAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})

	texts := make([]string, len(sorted))
	docs := make([][]string, len(sorted))
	for i, rel := range sorted {
		texts[i] = formatEdgeWithTimestamps(rel)
		docs[i] = tokenize(texts[i])
	}

	scores := bm25Scores(query, docs)
	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		// fallback: most recent edges in timestamp order
		out := make([]keywordMatch, 0, topK)
		for i := 0; i < len(sorted) && i < topK; i++ {
			out = append(out, keywordMatch{Text: formatEdge(sorted[i])})
		}
		return out
	}

	order := make([]int, len(sorted))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	out := make([]keywordMatch, 0, topK)
	for i := 0; i < len(order) && i < topK; i++ {
		idx := order[i]
		out = append(out, keywordMatch{
			Text:  texts[idx],
			Score: scores[idx] / maxScore,
		})
	}
	return out
}
