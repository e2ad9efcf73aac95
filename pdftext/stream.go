// CLAUDE:SUMMARY pdfcpu content-stream engine: extracts page text by parsing text-showing operators.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// streamPageTexts extracts raw per-page text by decoding pdfcpu page content
// streams. It trades the reader engine's font handling for pdfcpu's more
// tolerant structure parsing, which copes with files the reader rejects.
func (p *Pipeline) streamPageTexts(ctx context.Context, path, op string) ([]string, error) {
	// pdfcpu prompts for passwords on encrypted input; reject up front.
	st, err := probeStructure(path)
	if err == nil && st.encrypted {
		p.logger.Warn("document is encrypted", "path", path)
		return nil, fmt.Errorf("%w: %s", ErrEncrypted, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Op: op, Path: path, Cause: err}
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, &ExtractionError{Op: op, Path: path, Cause: fmt.Errorf("pdfcpu read: %w", err)}
	}

	p.logger.Debug("document opened", "path", path, "pages", pctx.PageCount, "engine", EngineStream)

	texts := make([]string, 0, pctx.PageCount)
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		texts = append(texts, streamPageText(pctx, pageNr))
	}
	return texts, nil
}

// streamPageText returns the text of one page's content stream. Pages whose
// content cannot be read contribute an empty string; the page record itself
// is never dropped.
func streamPageText(pctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return decodeContentText(data)
}

// decodeContentText walks a decoded content stream and collects the string
// operands of the text-showing operators Tj, TJ and ' (quote). Positioning
// operators Td/TD contribute a space and T* a newline so words on separate
// lines don't run together.
func decodeContentText(data []byte) string {
	var sb bytes.Buffer

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			writeStringLiterals(&sb, line)
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			sb.WriteByte('\n')
			writeStringLiterals(&sb, line)
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// writeStringLiterals appends the decoded contents of every balanced
// (...) literal in line, honoring backslash escapes and octal sequences.
func writeStringLiterals(sb *bytes.Buffer, line []byte) {
	depth := 0
	escape := false
	for i := 0; i < len(line); i++ {
		c := line[i]

		if depth == 0 {
			if c == '(' {
				depth = 1
			}
			continue
		}

		if escape {
			escape = false
			switch c {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '(', ')', '\\':
				sb.WriteByte(c)
			default:
				if c >= '0' && c <= '7' {
					val := int(c - '0')
					for n := 0; n < 2 && i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '7'; n++ {
						i++
						val = val*8 + int(line[i]-'0')
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(c)
				}
			}
			continue
		}

		switch c {
		case '\\':
			escape = true
		case '(':
			depth++
			sb.WriteByte(c)
		case ')':
			depth--
			if depth > 0 {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}
}
