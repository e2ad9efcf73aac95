// CLAUDE:SUMMARY Configuration struct and defaults for the pdftext extraction pipeline.
package pdftext

import "log/slog"

// Engine selects the PDF text extraction backend.
type Engine string

const (
	// EngineReader extracts text through the ledongthuc/pdf reader (default).
	EngineReader Engine = "reader"
	// EngineStream extracts text by parsing pdfcpu page content streams.
	EngineStream Engine = "stream"
)

// Config configures the extraction pipeline. It is read-only once passed to
// New; concurrent callers of a Pipeline share it without locking.
type Config struct {
	// SupportedExtensions lists accepted file extensions, dot included,
	// compared case-insensitively (default: [".pdf"]).
	SupportedExtensions []string `json:"supported_extensions" yaml:"supported_extensions"`

	// MaxFileSizeMB is the maximum file size in megabytes (default: 50).
	MaxFileSizeMB float64 `json:"max_file_size_mb" yaml:"max_file_size_mb"`

	// NormalizeWhitespace collapses whitespace runs within each page's text
	// to single spaces and trims the result.
	NormalizeWhitespace bool `json:"normalize_whitespace" yaml:"normalize_whitespace"`

	// PreserveLineBreaks joins pages with a blank line instead of a space.
	PreserveLineBreaks bool `json:"preserve_line_breaks" yaml:"preserve_line_breaks"`

	// MetadataFields lists the document-info fields to report. Fields the
	// document lacks are reported as null, never dropped.
	MetadataFields []string `json:"metadata_fields" yaml:"metadata_fields"`

	// Engine selects the extraction backend (default: EngineReader).
	Engine Engine `json:"engine" yaml:"engine"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultConfig returns the stock configuration: PDF only, 50 MB cap,
// whitespace normalization and line-break preservation on, the standard
// seven info fields.
func DefaultConfig() Config {
	return Config{
		SupportedExtensions: []string{".pdf"},
		MaxFileSizeMB:       50,
		NormalizeWhitespace: true,
		PreserveLineBreaks:  true,
		MetadataFields:      DefaultMetadataFields(),
		Engine:              EngineReader,
	}
}

// DefaultMetadataFields returns the standard document-info field list.
func DefaultMetadataFields() []string {
	return []string{
		"title",
		"author",
		"subject",
		"creator",
		"producer",
		"creation_date",
		"modification_date",
	}
}

func (c *Config) defaults() {
	if len(c.SupportedExtensions) == 0 {
		c.SupportedExtensions = []string{".pdf"}
	}
	if c.MetadataFields == nil {
		c.MetadataFields = DefaultMetadataFields()
	}
	if c.Engine == "" {
		c.Engine = EngineReader
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
