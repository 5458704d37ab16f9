package pgx

import (
	"sort"
)

const rrfK = 60.0

type hybridCandidate struct {
	Index            int
	ID               string
	SemanticDistance float64
	KeywordRank      float64
	KeywordMatched   bool
}

func candidateLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	}

	return min(max(limit*6, 40), 240)
}

func buildRankPositions(
	candidates []hybridCandidate,
	less func(a, b hybridCandidate) bool,
) map[int]int {
	order := make([]int, len(candidates))
	for i := range candidates {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return less(candidates[order[i]], candidates[order[j]])
	})

	positions := make(map[int]int, len(candidates))
	for rank, index := range order {
		positions[index] = rank + 1
	}

	return positions
}

func rrfComponent(rank int, weight float64) float64 {
	if rank <= 0 {
		return 0
	}
	return weight / (rrfK + float64(rank))
}

// selectRerankedCandidateIndexes fuses the semantic and keyword orderings
// with reciprocal rank fusion and returns the indexes of the top candidates.
// All tie-breaks are deterministic so identical inputs rank identically.
func selectRerankedCandidateIndexes(candidates []hybridCandidate, limit int) []int {
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}

	semanticRanks := buildRankPositions(candidates, func(a, b hybridCandidate) bool {
		if a.SemanticDistance == b.SemanticDistance {
			return a.ID < b.ID
		}
		return a.SemanticDistance < b.SemanticDistance
	})

	hasKeywords := false
	for _, candidate := range candidates {
		if candidate.KeywordMatched {
			hasKeywords = true
			break
		}
	}

	keywordRanks := map[int]int{}
	if hasKeywords {
		keywordRanks = buildRankPositions(candidates, func(a, b hybridCandidate) bool {
			if a.KeywordRank == b.KeywordRank {
				if a.SemanticDistance == b.SemanticDistance {
					return a.ID < b.ID
				}
				return a.SemanticDistance < b.SemanticDistance
			}
			return a.KeywordRank > b.KeywordRank
		})
	}

	type scoredCandidate struct {
		Candidate hybridCandidate
		Score     float64
	}

	scored := make([]scoredCandidate, len(candidates))
	for i, candidate := range candidates {
		score := rrfComponent(semanticRanks[candidate.Index], 1.0)
		if hasKeywords {
			score += rrfComponent(keywordRanks[candidate.Index], 1.0)
		}

		scored[i] = scoredCandidate{Candidate: candidate, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score == scored[j].Score {
			if scored[i].Candidate.SemanticDistance == scored[j].Candidate.SemanticDistance {
				return scored[i].Candidate.ID < scored[j].Candidate.ID
			}
			return scored[i].Candidate.SemanticDistance < scored[j].Candidate.SemanticDistance
		}
		return scored[i].Score > scored[j].Score
	})

	if limit > len(scored) {
		limit = len(scored)
	}

	selected := make([]int, 0, limit)
	for i := 0; i < limit; i++ {
		selected = append(selected, scored[i].Candidate.Index)
	}

	return selected
}
