package chunker

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c, err := New()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, c.chunkSize)
		}
		if c.overlap != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, c.overlap)
		}
	})

	t.Run("custom sizes", func(t *testing.T) {
		c, err := New(WithChunkSize(500), WithOverlap(100), WithMaxChars(5000))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.chunkSize != 500 || c.overlap != 100 || c.maxChars != 5000 {
			t.Errorf("options not applied: %+v", c)
		}
	})

	t.Run("overlap equal to chunk size fails fast", func(t *testing.T) {
		if _, err := New(WithChunkSize(100), WithOverlap(100)); err == nil {
			t.Error("expected error when overlap == chunkSize")
		}
	})

	t.Run("overlap exceeding chunk size fails fast", func(t *testing.T) {
		if _, err := New(WithChunkSize(100), WithOverlap(150)); err == nil {
			t.Error("expected error when overlap > chunkSize")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c, err := New(WithChunkSize(0), WithOverlap(-1), WithMaxChars(0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.chunkSize != DefaultChunkSize || c.overlap != DefaultOverlap || c.maxChars != DefaultMaxChars {
			t.Errorf("expected defaults, got %+v", c)
		}
	})
}

func TestSplit_EmptyInput(t *testing.T) {
	c, _ := New()

	for _, input := range []string{"", "   ", "\n\t  \n"} {
		if got := c.Split(input); len(got) != 0 {
			t.Errorf("Split(%q): expected 0 chunks, got %d", input, len(got))
		}
	}
}

func TestSplit_ShortText(t *testing.T) {
	c, _ := New(WithChunkSize(100), WithOverlap(20))

	chunks := c.Split("a short document")
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "a short document" {
		t.Errorf("unexpected chunk content: %q", chunks[0])
	}
}

func TestSplit_ChunkCount(t *testing.T) {
	// For text longer than chunkSize the number of windows is
	// ceil((len - overlap) / (chunkSize - overlap)).
	tests := []struct {
		name      string
		length    int
		chunkSize int
		overlap   int
		want      int
	}{
		{"exact multiple", 10, 5, 2, 3},
		{"one step over", 12, 5, 2, 4},
		{"no overlap", 10, 5, 0, 2},
		{"large text", 1000, 100, 20, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(WithChunkSize(tt.chunkSize), WithOverlap(tt.overlap))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			text := strings.Repeat("x", tt.length)
			chunks := c.Split(text)

			want := (tt.length - tt.overlap + (tt.chunkSize - tt.overlap) - 1) / (tt.chunkSize - tt.overlap)
			if want != tt.want {
				t.Fatalf("test fixture wrong: computed %d, expected %d", want, tt.want)
			}
			if len(chunks) != tt.want {
				t.Errorf("expected %d chunks, got %d", tt.want, len(chunks))
			}
		})
	}
}

func TestSplit_OverlapRepeatsContext(t *testing.T) {
	c, _ := New(WithChunkSize(10), WithOverlap(4))

	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := c.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-4:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Errorf("chunk %d does not repeat previous tail: %q then %q", i, chunks[i-1], chunks[i])
		}
	}
}

func TestSplit_CoversWholeText(t *testing.T) {
	c, _ := New(WithChunkSize(10), WithOverlap(3))

	text := "abcdefghijklmnopqrstuvwxyz0123456789"
	chunks := c.Split(text)

	// Dropping each chunk's leading overlap reconstructs the source.
	rebuilt := chunks[0]
	for _, chunk := range chunks[1:] {
		rebuilt += chunk[3:]
	}
	if rebuilt != text {
		t.Errorf("reconstruction mismatch:\n got %q\nwant %q", rebuilt, text)
	}
}

func TestSplit_NormalizesWhitespace(t *testing.T) {
	c, _ := New(WithChunkSize(100), WithOverlap(10))

	chunks := c.Split("  hello\n\n\tworld   again  ")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "hello world again" {
		t.Errorf("whitespace not normalised: %q", chunks[0])
	}
}

func TestSplit_ClipsLongDocuments(t *testing.T) {
	c, _ := New(WithChunkSize(10), WithOverlap(0), WithMaxChars(25))

	text := strings.Repeat("a", 100)
	chunks := c.Split(text)

	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	if total != 25 {
		t.Errorf("expected 25 chars after clipping, got %d across %d chunks", total, len(chunks))
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"a  b", "a b"},
		{"\ta\nb\r\nc ", "a b c"},
	}

	for _, tt := range tests {
		if got := NormalizeWhitespace(tt.in); got != tt.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
