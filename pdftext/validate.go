// CLAUDE:SUMMARY File validation guard: existence, extension, size cap. Never opens the file.
package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validate checks that path references an existing file with a supported
// extension below the configured size cap. It fails with ErrNotFound or
// ErrInvalidInput and never inspects the file's content, so a file passing
// validation may still turn out corrupt or encrypted.
func (p *Pipeline) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		p.logger.Debug("validation failed", "path", path, "reason", "not found")
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if info.IsDir() {
		p.logger.Debug("validation failed", "path", path, "reason", "directory")
		return fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !p.supportedExt(ext) {
		p.logger.Debug("validation failed", "path", path, "reason", "extension", "ext", ext)
		return fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, ext)
	}

	sizeMB := float64(info.Size()) / (1024 * 1024)
	if sizeMB > p.cfg.MaxFileSizeMB {
		p.logger.Debug("validation failed", "path", path, "reason", "size", "size_mb", sizeMB)
		return fmt.Errorf("%w: file size %.2fMB exceeds maximum %.2fMB",
			ErrInvalidInput, sizeMB, p.cfg.MaxFileSizeMB)
	}

	p.logger.Debug("validation passed", "path", path)
	return nil
}

func (p *Pipeline) supportedExt(ext string) bool {
	for _, s := range p.cfg.SupportedExtensions {
		if strings.EqualFold(s, ext) {
			return true
		}
	}
	return false
}
