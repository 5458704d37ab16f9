package store

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultChunkTokens is the token bound applied to memory texts before
// they are embedded.
const DefaultChunkTokens = 512

// ChunkByTokens splits text into chunks of at most maxTokens tokens using
// the o200k_base encoding. Texts within the bound come back as a single
// chunk; empty or whitespace-only texts produce no chunks.
func ChunkByTokens(text string, maxTokens int) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if maxTokens <= 0 {
		maxTokens = DefaultChunkTokens
	}

	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return nil, err
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return []string{text}, nil
	}

	chunks := make([]string, 0, (len(tokens)+maxTokens-1)/maxTokens)
	for start := 0; start < len(tokens); start += maxTokens {
		end := min(start+maxTokens, len(tokens))
		chunk := enc.Decode(tokens[start:end])
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
