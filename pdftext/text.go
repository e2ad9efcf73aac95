package pdftext

import (
	"strings"
	"unicode"
)

// normalizeWhitespace collapses runs of whitespace (newlines included) to
// single spaces and trims leading/trailing whitespace.
func normalizeWhitespace(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}

// pageSeparator returns the string used to join page texts.
func (p *Pipeline) pageSeparator() string {
	if p.cfg.PreserveLineBreaks {
		return "\n\n"
	}
	return " "
}
