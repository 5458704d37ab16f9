package memory

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	typeVector   = "vector"
	typeGraph    = "graph"
	typeKeyword  = "keyword"
	typeSemantic = "semantic"
)

type taggedResult struct {
	Type        string
	Content     string // text used for dedup and scoring
	Display     string // preformatted report body
	CreatedAt   string
	SourceQuery string
}

var resultTypeOrder = []string{typeVector, typeGraph, typeKeyword, typeSemantic}

var resultTypePriority = map[string]float64{
	typeVector:   15,
	typeGraph:    12,
	typeKeyword:  8,
	typeSemantic: 5,
}

var resultTypeCap = map[string]int{
	typeVector:   15,
	typeGraph:    10,
	typeKeyword:  8,
	typeSemantic: 5,
}

var resultTypeInfo = map[string][2]string{
	typeVector:   {"📄 DOCUMENT MEMORIES", "Personal notes, conversations, and documents"},
	typeGraph:    {"🔗 RELATIONSHIP MEMORIES", "Connected facts and entity relationships"},
	typeKeyword:  {"🔍 KEYWORD MATCHES", "Direct keyword and phrase matches"},
	typeSemantic: {"🤖 AI-ENHANCED SEARCH", "Advanced semantic search results"},
}

func truncate(text string, limit int) string {
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

// collectResults flattens the per-query search output into per-type tagged
// result lists, preserving the originating sub-query on every item.
func collectResults(all []queryResults) map[string][]taggedResult {
	collected := map[string][]taggedResult{
		typeVector:   {},
		typeGraph:    {},
		typeKeyword:  {},
		typeSemantic: {},
	}

	for _, qr := range all {
		for _, doc := range qr.VectorResults {
			source := doc.Metadata["source"]
			if source == "" {
				source = "Unknown source"
			}
			createdAt := ""
			if !doc.CreatedAt.IsZero() {
				createdAt = doc.CreatedAt.Format(edgeTimestampLayout)
			}
			collected[typeVector] = append(collected[typeVector], taggedResult{
				Type:        typeVector,
				Content:     doc.Content,
				Display:     fmt.Sprintf("%s\n   📁 Source: %s", truncate(doc.Content, 300), source),
				CreatedAt:   createdAt,
				SourceQuery: qr.Query,
			})
		}
		for _, rel := range qr.GraphResults {
			edge := formatEdge(rel)
			collected[typeGraph] = append(collected[typeGraph], taggedResult{
				Type:        typeGraph,
				Content:     edge,
				Display:     edge,
				CreatedAt:   formatEdgeTimestampOrEmpty(rel.CreatedAt),
				SourceQuery: qr.Query,
			})
		}
		for _, kw := range qr.KeywordResults {
			display := truncate(kw.Text, 250)
			if kw.Score > 0 {
				display = fmt.Sprintf("%s\n   🎯 Match confidence: %.2f", display, kw.Score)
			}
			collected[typeKeyword] = append(collected[typeKeyword], taggedResult{
				Type:        typeKeyword,
				Content:     kw.Text,
				Display:     display,
				SourceQuery: qr.Query,
			})
		}
		for _, doc := range qr.SemanticResults {
			display := truncate(doc.Content, 300)
			if doc.Score > 0 {
				display = fmt.Sprintf("%s\n   🎯 Match confidence: %.2f", display, doc.Score)
			}
			collected[typeSemantic] = append(collected[typeSemantic], taggedResult{
				Type:        typeSemantic,
				Content:     doc.Content,
				Display:     display,
				SourceQuery: qr.Query,
			})
		}
	}
	return collected
}

func formatEdgeTimestampOrEmpty(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.Format(edgeTimestampLayout)
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// deduplicateResults drops exact and near duplicates: identical normalized
// content (md5) and content sharing the same 100-char prefix. Items with
// fewer than 10 meaningful characters are discarded outright.
func deduplicateResults(results []taggedResult) []taggedResult {
	if len(results) == 0 {
		return nil
	}

	seenHashes := make(map[string]struct{})
	seenPrefixes := make(map[string]struct{})
	unique := make([]taggedResult, 0, len(results))

	for _, r := range results {
		content := strings.TrimSpace(r.Content)
		if len(content) < 10 {
			continue
		}

		normalized := whitespaceRuns.ReplaceAllString(strings.ToLower(content), " ")
		sum := md5.Sum([]byte(normalized))
		hash := hex.EncodeToString(sum[:])
		if _, ok := seenHashes[hash]; ok {
			continue
		}

		prefix := normalized
		if len(prefix) > 100 {
			prefix = prefix[:100]
		}
		if _, ok := seenPrefixes[prefix]; ok {
			continue
		}

		seenHashes[hash] = struct{}{}
		seenPrefixes[prefix] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}

// relevanceScore scores one result against the original query: keyword
// overlap (0-40), substring bonus (+20 full query, +10 any long word),
// source-type priority, a content-length curve peaking at 50-500 chars,
// and a recency bonus up to 10 points.
func relevanceScore(r taggedResult, queryLower string, queryKeywords map[string]struct{}) float64 {
	score := 0.0
	contentLower := strings.ToLower(r.Content)

	contentWords := make(map[string]struct{})
	for _, w := range tokenize(contentLower) {
		contentWords[w] = struct{}{}
	}
	overlap := 0
	for kw := range queryKeywords {
		if _, ok := contentWords[kw]; ok {
			overlap++
		}
	}
	if len(queryKeywords) > 0 {
		score += (float64(overlap) / float64(len(queryKeywords))) * 40
	}

	if strings.Contains(contentLower, queryLower) {
		score += 20
	} else {
		for kw := range queryKeywords {
			if len(kw) > 3 && strings.Contains(contentLower, kw) {
				score += 10
				break
			}
		}
	}

	score += resultTypePriority[r.Type]

	length := len(r.Content)
	switch {
	case length >= 50 && length <= 500:
		score += 15
	case length >= 20 && length < 50:
		score += 10
	case length > 500:
		score += 8
	}

	if r.CreatedAt != "" {
		if parsed, err := dateparse.ParseAny(r.CreatedAt); err == nil {
			daysAgo := int(time.Since(parsed).Hours() / 24)
			switch {
			case daysAgo <= 7:
				score += 10
			case daysAgo <= 30:
				score += 7
			case daysAgo <= 90:
				score += 4
			}
		}
	}

	return score
}

// rankByRelevance scores each type's results against the original query,
// sorts them descending and applies the per-type cap.
func rankByRelevance(collected map[string][]taggedResult, originalQuery string) map[string][]taggedResult {
	queryLower := strings.ToLower(originalQuery)
	queryKeywords := make(map[string]struct{})
	for _, w := range tokenize(queryLower) {
		queryKeywords[w] = struct{}{}
	}

	ranked := make(map[string][]taggedResult, len(collected))
	for resultType, results := range collected {
		if len(results) == 0 {
			ranked[resultType] = nil
			continue
		}

		scored := make([]struct {
			result taggedResult
			score  float64
		}, len(results))
		for i, r := range results {
			scored[i].result = r
			scored[i].score = relevanceScore(r, queryLower, queryKeywords)
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].score > scored[j].score
		})

		limit := resultTypeCap[resultType]
		if limit == 0 || limit > len(scored) {
			limit = len(scored)
		}
		top := make([]taggedResult, 0, limit)
		for i := 0; i < limit; i++ {
			top = append(top, scored[i].result)
		}
		ranked[resultType] = top
	}
	return ranked
}

// synthesizeResults merges the per-query search output into one ranked,
// grouped text report.
func synthesizeResults(all []queryResults, originalQuery string) string {
	collected := collectResults(all)
	for resultType := range collected {
		collected[resultType] = deduplicateResults(collected[resultType])
	}
	ranked := rankByRelevance(collected, originalQuery)

	return formatSynthesizedResults(ranked, len(all))
}

func formatSynthesizedResults(ranked map[string][]taggedResult, numQueries int) string {
	lines := []string{
		"=== INTELLIGENT MEMORY SEARCH RESULTS ===",
		fmt.Sprintf("Analyzed %d strategic queries across all data sources\n", numQueries),
	}

	total := 0
	for _, results := range ranked {
		total += len(results)
	}
	if total == 0 {
		return "No relevant memories found for your query."
	}

	lines = append(lines, fmt.Sprintf("Found %d relevant memories:\n", total))

	for _, resultType := range resultTypeOrder {
		results := ranked[resultType]
		if len(results) == 0 {
			continue
		}

		info := resultTypeInfo[resultType]
		lines = append(lines,
			fmt.Sprintf("%s (%d results)", info[0], len(results)),
			info[1],
			strings.Repeat("-", 50),
		)

		display := results
		if len(display) > 10 {
			display = display[:10]
		}
		for i, r := range display {
			if strings.TrimSpace(r.Display) == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, r.Display), "")
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		strings.Repeat("=", 60),
		fmt.Sprintf("Search completed. %d total memories retrieved and ranked by relevance.", total),
	)
	return strings.Join(lines, "\n")
}
