package summarize

import (
	"strings"
	"testing"
)

func TestChunkByParagraph_KeepsShortTextWhole(t *testing.T) {
	t.Parallel()
	text := "First paragraph.\nSecond paragraph."
	chunks := ChunkByParagraph(text, 1000)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(chunks), chunks)
	}
}

func TestChunkByParagraph_NeverSplitsAParagraph(t *testing.T) {
	t.Parallel()
	paras := []string{
		strings.Repeat("a", 400),
		strings.Repeat("b", 400),
		strings.Repeat("c", 400),
	}
	chunks := ChunkByParagraph(strings.Join(paras, "\n"), 1000)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, p := range paras {
		found := 0
		for _, c := range chunks {
			if strings.Contains(c, p) {
				found++
			}
		}
		if found != 1 {
			t.Fatalf("paragraph appears in %d chunks, want exactly 1", found)
		}
	}
}

func TestChunkByParagraph_OversizedParagraphStandsAlone(t *testing.T) {
	t.Parallel()
	big := strings.Repeat("x", 1500)
	chunks := ChunkByParagraph("small one\n"+big+"\nsmall two", 1000)
	found := false
	for _, c := range chunks {
		if strings.Contains(c, big) {
			found = true
			if len(c) < len(big) {
				t.Fatal("oversized paragraph was split")
			}
		}
	}
	if !found {
		t.Fatal("oversized paragraph missing from chunks")
	}
}

func TestChunkByParagraph_RespectsLimitForNormalInput(t *testing.T) {
	t.Parallel()
	var paras []string
	for i := 0; i < 20; i++ {
		paras = append(paras, strings.Repeat("p", 300))
	}
	for _, c := range ChunkByParagraph(strings.Join(paras, "\n"), 1000) {
		// Paragraph (300) + limit (1000): no chunk should blow far past it.
		if len(c) > 1000 {
			t.Fatalf("chunk of %d chars exceeds limit", len(c))
		}
	}
}

func TestChunkByParagraph_EmptyInput(t *testing.T) {
	t.Parallel()
	if chunks := ChunkByParagraph("", 1000); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %v", chunks)
	}
	if chunks := ChunkByParagraph("\n\n\n", 1000); len(chunks) != 0 {
		t.Fatalf("expected no chunks for blank input, got %v", chunks)
	}
}
