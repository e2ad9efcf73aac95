package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testPDF describes a synthetic PDF assembled with correct xref offsets.
type testPDF struct {
	pages     []string          // one content string per page
	info      map[string]string // document-info entries, PDF key → value
	encrypted bool              // attach a Standard security handler dict
}

// build produces a complete single-xref PDF. Object layout:
// 1 catalog, 2 page tree, 3..2+n pages, 3+n..2+2n content streams,
// 3+2n font, then optional info and encrypt dicts.
func (tp testPDF) build() []byte {
	n := len(tp.pages)
	fontObj := 3 + 2*n
	infoObj := 0
	encObj := 0
	next := fontObj + 1
	if len(tp.info) > 0 {
		infoObj = next
		next++
	}
	if tp.encrypted {
		encObj = next
		next++
	}
	total := next - 1

	var b strings.Builder
	offsets := make([]int, total+1)
	writeObj := func(num int, body string) {
		offsets[num] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	b.WriteString("%PDF-1.4\n")

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))

	for i := 0; i < n; i++ {
		writeObj(3+i, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>",
			3+n+i, fontObj))
	}

	for i, text := range tp.pages {
		stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + escapePDFString(text) + ") Tj\nET"
		offsets[3+n+i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			3+n+i, len(stream), stream)
	}

	writeObj(fontObj, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	if infoObj != 0 {
		var info strings.Builder
		info.WriteString("<<")
		// Deterministic order keeps builds byte-stable across runs.
		for _, key := range []string{"Title", "Author", "Subject", "Creator", "Producer", "CreationDate", "ModDate", "Keywords"} {
			if v, ok := tp.info[key]; ok {
				fmt.Fprintf(&info, " /%s (%s)", key, escapePDFString(v))
			}
		}
		info.WriteString(" >>")
		writeObj(infoObj, info.String())
	}

	if encObj != 0 {
		writeObj(encObj, "<< /Filter /Standard /V 1 /R 2 /P -44 /O <"+
			strings.Repeat("12", 32)+"> /U <"+strings.Repeat("34", 32)+"> >>")
	}

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", total+1)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= total; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}

	b.WriteString("trailer\n<< /Size ")
	fmt.Fprintf(&b, "%d /Root 1 0 R", total+1)
	if infoObj != 0 {
		fmt.Fprintf(&b, " /Info %d 0 R", infoObj)
	}
	if encObj != 0 {
		fmt.Fprintf(&b, " /Encrypt %d 0 R", encObj)
		b.WriteString(" /ID [<0123456789ABCDEF0123456789ABCDEF> <0123456789ABCDEF0123456789ABCDEF>]")
	}
	b.WriteString(" >>\n")
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	return []byte(b.String())
}

func escapePDFString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}

// writeTestPDF builds the PDF and writes it under a temp dir.
func writeTestPDF(t *testing.T, name string, tp testPDF) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, tp.build(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestPipeline(overrides func(*Config)) *Pipeline {
	cfg := DefaultConfig()
	if overrides != nil {
		overrides(&cfg)
	}
	return New(cfg)
}
