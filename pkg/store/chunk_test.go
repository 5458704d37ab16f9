package store

import (
	"strings"
	"testing"
)

func TestChunkByTokens_ShortText(t *testing.T) {
	chunks, err := ChunkByTokens("I love hiking in the mountains.", 512)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "I love hiking in the mountains." {
		t.Fatalf("short text should be returned unchanged, got %q", chunks[0])
	}
}

func TestChunkByTokens_EmptyText(t *testing.T) {
	chunks, err := ChunkByTokens("   ", 512)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for whitespace text, got %d", len(chunks))
	}
}

func TestChunkByTokens_LongText(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)
	chunks, err := ChunkByTokens(text, 128)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	joined := strings.Join(chunks, "")
	if joined != text {
		t.Fatal("concatenated chunks should reconstruct the original text")
	}
}

func TestChunkByTokens_DefaultBound(t *testing.T) {
	chunks, err := ChunkByTokens("remember this", 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk with default bound, got %d", len(chunks))
	}
}

func TestChunkRange(t *testing.T) {
	var spans [][2]int
	err := ChunkRange(10, 4, func(start, end int) error {
		spans = append(spans, [2]int{start, end})
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	want := [][2]int{{0, 4}, {4, 8}, {8, 10}}
	if len(spans) != len(want) {
		t.Fatalf("expected %d spans, got %d", len(want), len(spans))
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Fatalf("span %d: expected %v, got %v", i, want[i], spans[i])
		}
	}
}

func TestDedupeStrings(t *testing.T) {
	out := DedupeStrings([]string{"a", "", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if len(out) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], out[i])
		}
	}
}
