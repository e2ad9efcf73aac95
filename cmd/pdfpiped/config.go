package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/pdfpipe/pdftext"
)

// Config holds the full pdfpiped configuration.
type Config struct {
	Listen       string           `yaml:"listen"`
	AuditDB      string           `yaml:"audit_db"`
	LogLevel     string           `yaml:"log_level"`
	MCPTransport string           `yaml:"mcp_transport"` // "" or "stdio"
	Extraction   ExtractionConfig `yaml:"extraction"`
}

// ExtractionConfig maps onto pdftext.Config. Boolean toggles are pointers
// so an absent key keeps the default (true) while an explicit false sticks.
type ExtractionConfig struct {
	SupportedExtensions []string `yaml:"supported_extensions"`
	MaxFileSizeMB       float64  `yaml:"max_file_size_mb"`
	NormalizeWhitespace *bool    `yaml:"normalize_whitespace"`
	PreserveLineBreaks  *bool    `yaml:"preserve_line_breaks"`
	MetadataFields      []string `yaml:"metadata_fields"`
	Engine              string   `yaml:"engine"` // "reader" or "stream"
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:   ":8086",
		AuditDB:  "db/extractions.db",
		LogLevel: "info",
		Extraction: ExtractionConfig{
			MaxFileSizeMB: 50,
		},
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.AuditDB == "" {
		return fmt.Errorf("audit_db is required")
	}
	if c.Extraction.MaxFileSizeMB <= 0 {
		return fmt.Errorf("extraction.max_file_size_mb must be > 0")
	}
	switch c.Extraction.Engine {
	case "", string(pdftext.EngineReader), string(pdftext.EngineStream):
	default:
		return fmt.Errorf("extraction.engine %q not supported (use reader or stream)", c.Extraction.Engine)
	}
	switch c.MCPTransport {
	case "", "stdio":
	default:
		return fmt.Errorf("mcp_transport %q not supported (use stdio)", c.MCPTransport)
	}
	return nil
}

// PipelineConfig builds the pdftext configuration from the extraction section.
func (c *Config) PipelineConfig() pdftext.Config {
	pc := pdftext.DefaultConfig()
	if len(c.Extraction.SupportedExtensions) > 0 {
		pc.SupportedExtensions = c.Extraction.SupportedExtensions
	}
	if c.Extraction.MaxFileSizeMB > 0 {
		pc.MaxFileSizeMB = c.Extraction.MaxFileSizeMB
	}
	if c.Extraction.NormalizeWhitespace != nil {
		pc.NormalizeWhitespace = *c.Extraction.NormalizeWhitespace
	}
	if c.Extraction.PreserveLineBreaks != nil {
		pc.PreserveLineBreaks = *c.Extraction.PreserveLineBreaks
	}
	if len(c.Extraction.MetadataFields) > 0 {
		pc.MetadataFields = c.Extraction.MetadataFields
	}
	if c.Extraction.Engine != "" {
		pc.Engine = pdftext.Engine(c.Extraction.Engine)
	}
	return pc
}
