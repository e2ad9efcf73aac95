// CLAUDE:SUMMARY Metadata extraction: filesystem facts plus document-info fields via an explicit key table.
package pdftext

import (
	"context"
	"math"
	"os"
	"path/filepath"
)

// infoKeys maps configured field names to PDF document-info dictionary keys.
// An explicit table rather than a derived string transform: the info key for
// modification_date is /ModDate, which no naming convention produces.
var infoKeys = map[string]string{
	"title":             "Title",
	"author":            "Author",
	"subject":           "Subject",
	"creator":           "Creator",
	"producer":          "Producer",
	"creation_date":     "CreationDate",
	"modification_date": "ModDate",
	"keywords":          "Keywords",
}

// ExtractMetadata returns filesystem and document-level facts about a PDF.
//
// Unlike the text operations it does not fail on encrypted documents:
// IsEncrypted is reported as a field, and info-dict fields of documents the
// reader cannot open come back as missing (their strings are encrypted
// anyway). Validation failures and other reader failures propagate as usual.
func (p *Pipeline) ExtractMetadata(ctx context.Context, path string) (*Metadata, error) {
	if err := p.Validate(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Op: "extract metadata", Path: path, Cause: err}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	md := &Metadata{
		FileName:   filepath.Base(path),
		FilePath:   abs,
		FileSizeMB: round2(float64(info.Size()) / (1024 * 1024)),
		Fields:     make(map[string]*string, len(p.cfg.MetadataFields)),
	}
	for _, field := range p.cfg.MetadataFields {
		md.Fields[field] = nil
	}

	doc, err := openDocument(path)
	if err != nil {
		if !isEncryptedError(path, err) {
			return nil, &ExtractionError{Op: "extract metadata", Path: path, Cause: err}
		}
		// Password-protected: the reader gives us nothing, but the page tree
		// and trailer stay readable through the raw probe.
		st, probeErr := probeStructure(path)
		if probeErr != nil {
			return nil, &ExtractionError{Op: "extract metadata", Path: path, Cause: probeErr}
		}
		md.IsEncrypted = true
		md.PageCount = st.pageCount
		p.logger.Info("metadata extracted", "path", path, "pages", md.PageCount, "encrypted", true)
		return md, nil
	}
	defer doc.close()

	md.PageCount = doc.pageCount()
	md.IsEncrypted = doc.encrypted()

	for _, field := range p.cfg.MetadataFields {
		key, known := infoKeys[field]
		if !known {
			continue
		}
		if val, ok := doc.infoString(key); ok {
			v := val
			md.Fields[field] = &v
		}
	}

	p.logger.Info("metadata extracted", "path", path, "pages", md.PageCount, "encrypted", md.IsEncrypted)
	return md, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
