package pdftext

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStreamEngine_ExtractText(t *testing.T) {
	// WHAT: the stream engine extracts the same content the reader engine
	// finds in a plain uncompressed PDF.
	path := writeTestPDF(t, "stream.pdf", testPDF{pages: []string{"Hello from the stream engine"}})

	pipe := newTestPipeline(func(c *Config) { c.Engine = EngineStream })
	text, err := pipe.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "Hello from the stream engine") {
		t.Errorf("text = %q, want the page content", text)
	}
}

func TestStreamEngine_PageRecords(t *testing.T) {
	// WHAT: the stream engine produces one record per page with 1..N numbering.
	path := writeTestPDF(t, "streampages.pdf", testPDF{pages: []string{"one", "two"}})

	pipe := newTestPipeline(func(c *Config) { c.Engine = EngineStream })
	pages, err := pipe.ExtractPages(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractPages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}
	for i, pg := range pages {
		if pg.PageNumber != i+1 {
			t.Errorf("pages[%d].PageNumber = %d", i, pg.PageNumber)
		}
	}
}

func TestStreamEngine_Encrypted(t *testing.T) {
	// WHAT: the stream engine refuses encrypted documents before opening.
	path := writeTestPDF(t, "streamlocked.pdf", testPDF{pages: []string{"x"}, encrypted: true})

	pipe := newTestPipeline(func(c *Config) { c.Engine = EngineStream })
	if _, err := pipe.ExtractText(context.Background(), path); !errors.Is(err, ErrEncrypted) {
		t.Fatalf("expected ErrEncrypted, got %v", err)
	}
}

func TestDecodeContentText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tj", "BT\n(Hello) Tj\nET", "Hello"},
		{"tj array", "[(Hel) -20 (lo)] TJ", "Hello"},
		{"escapes", `(a\(b\)c\\d) Tj`, `a(b)c\d`},
		{"octal", `(\110i) Tj`, "Hi"},
		{"newline quote", "(first) Tj\n(second) '", "first\nsecond"},
		{"positioning", "(a) Tj\n1 0 Td\n(b) Tj", "a b"},
		{"tstar", "(a) Tj\nT*\n(b) Tj", "a\nb"},
		{"no text ops", "q 1 0 0 1 0 0 cm Q", ""},
	}
	for _, tt := range tests {
		if got := decodeContentText([]byte(tt.in)); got != tt.want {
			t.Errorf("%s: decodeContentText(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestWriteStringLiterals_NestedParens(t *testing.T) {
	// Balanced nested parentheses inside a literal survive decoding.
	got := decodeContentText([]byte("(outer (inner) tail) Tj"))
	if got != "outer (inner) tail" {
		t.Errorf("got %q", got)
	}
}
