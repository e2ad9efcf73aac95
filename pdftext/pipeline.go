// CLAUDE:SUMMARY Core pipeline: validated full-text, per-page and metadata extraction from PDF files.
// Package pdftext extracts text and metadata from PDF documents.
//
// The pipeline delegates all PDF parsing to third-party readers and applies
// configuration-driven post-processing on top: file validation, per-page
// whitespace normalization, page joining and document-info lookup.
//
// Usage:
//
//	pipe := pdftext.New(pdftext.DefaultConfig())
//	text, err := pipe.ExtractText(ctx, "/path/to/file.pdf")
//	pages, err := pipe.ExtractPages(ctx, "/path/to/file.pdf")
//	meta, err := pipe.ExtractMetadata(ctx, "/path/to/file.pdf")
//
// Every call validates, opens, reads and closes its own document; nothing is
// cached or shared between calls, so a Pipeline is safe for concurrent use.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Pipeline is the PDF extraction engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration. Start from
// DefaultConfig for the stock settings; a zero Config accepts no file
// because its size cap is zero.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Config returns a copy of the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// ExtractText returns the text of all pages joined into a single string.
// Pages are joined with a blank line when line-break preservation is on,
// otherwise with a single space. An empty document yields "".
//
// Fails with ErrNotFound/ErrInvalidInput from validation, ErrEncrypted for
// password-protected documents, and *ExtractionError for any other reader
// failure.
func (p *Pipeline) ExtractText(ctx context.Context, path string) (string, error) {
	if err := p.Validate(path); err != nil {
		return "", err
	}

	pages, err := p.readPages(ctx, path, "extract text")
	if err != nil {
		return "", err
	}

	texts := make([]string, len(pages))
	for i, pg := range pages {
		texts[i] = pg.Text
	}
	combined := strings.Join(texts, p.pageSeparator())

	p.logger.Info("text extracted", "path", path, "pages", len(pages), "chars", utf8.RuneCountInString(combined))
	return combined, nil
}

// ExtractPages returns one Page record per document page, in document order
// starting at 1, each normalized independently. An empty document yields an
// empty slice. Error behavior matches ExtractText.
func (p *Pipeline) ExtractPages(ctx context.Context, path string) ([]Page, error) {
	if err := p.Validate(path); err != nil {
		return nil, err
	}

	pages, err := p.readPages(ctx, path, "extract by pages")
	if err != nil {
		return nil, err
	}

	p.logger.Info("pages extracted", "path", path, "pages", len(pages))
	return pages, nil
}

// readPages runs the configured engine and applies per-page normalization.
func (p *Pipeline) readPages(ctx context.Context, path, op string) ([]Page, error) {
	var (
		texts []string
		err   error
	)
	switch p.cfg.Engine {
	case EngineStream:
		texts, err = p.streamPageTexts(ctx, path, op)
	default:
		texts, err = p.readerPageTexts(ctx, path, op)
	}
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(texts))
	for i, text := range texts {
		if p.cfg.NormalizeWhitespace {
			text = normalizeWhitespace(text)
		}
		pages = append(pages, Page{
			PageNumber: i + 1,
			Text:       text,
			CharCount:  utf8.RuneCountInString(text),
		})
	}
	return pages, nil
}

// readerPageTexts extracts raw per-page text through the reader engine.
func (p *Pipeline) readerPageTexts(ctx context.Context, path, op string) ([]string, error) {
	doc, err := openDocument(path)
	if err != nil {
		if isEncryptedError(path, err) {
			p.logger.Warn("document is encrypted", "path", path)
			return nil, fmt.Errorf("%w: %s", ErrEncrypted, path)
		}
		return nil, &ExtractionError{Op: op, Path: path, Cause: err}
	}
	defer doc.close()

	if doc.encrypted() {
		p.logger.Warn("document is encrypted", "path", path)
		return nil, fmt.Errorf("%w: %s", ErrEncrypted, path)
	}

	n := doc.pageCount()
	p.logger.Debug("document opened", "path", path, "pages", n)

	texts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.pageText(i)
		if err != nil {
			return nil, &ExtractionError{Op: op, Path: path, Cause: err}
		}
		texts = append(texts, text)
	}
	return texts, nil
}
