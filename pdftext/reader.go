// CLAUDE:SUMMARY ledongthuc/pdf document wrapper with panic guards, encryption classification and a raw structure probe.
package pdftext

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/ledongthuc/pdf"
)

// document is a handle on an open PDF, owned by a single pipeline call.
type document struct {
	f *os.File
	r *pdf.Reader
}

// openDocument opens path through the reader library. The library panics on
// some malformed inputs, so the call is recover-protected; any panic is
// surfaced as a plain error for the caller to classify.
func openDocument(path string) (doc *document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("reader panic: %v", rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &document{f: f, r: r}, nil
}

func (d *document) close() {
	d.f.Close()
}

func (d *document) pageCount() int {
	return d.r.NumPage()
}

// encrypted reports whether the document carries an Encrypt dictionary.
// Files the library opened with an empty user password still carry one.
func (d *document) encrypted() (enc bool) {
	defer func() {
		if rec := recover(); rec != nil {
			enc = false
		}
	}()
	return !d.r.Trailer().Key("Encrypt").IsNull()
}

// pageText extracts plain text from the 1-indexed page. Pages the reader
// cannot resolve yield an empty string rather than an error; real decode
// failures and panics come back as errors.
func (d *document) pageText(num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("page %d: reader panic: %v", num, rec)
		}
	}()

	page := d.r.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// infoString looks up a string value in the trailer Info dictionary.
// Returns ok=false when the dictionary or the key is absent.
func (d *document) infoString(key string) (val string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			val, ok = "", false
		}
	}()

	v := d.r.Trailer().Key("Info").Key(key)
	if v.Kind() != pdf.String {
		return "", false
	}
	return v.RawString(), true
}

// isEncryptedError reports whether an open failure means the document is
// password-protected. The library's sentinel covers the common case; the raw
// probe catches encrypted files it rejects with a different parse error.
func isEncryptedError(path string, err error) bool {
	if errors.Is(err, pdf.ErrInvalidPassword) {
		return true
	}
	st, probeErr := probeStructure(path)
	return probeErr == nil && st.encrypted
}

// structInfo holds facts recovered from a raw scan of the PDF body, used
// when the reader cannot open the file at all (password-protected
// documents). The trailer and page tree dictionaries stay in cleartext even
// in encrypted files, so this stays reliable where stream decoding is not.
type structInfo struct {
	encrypted bool
	pageCount int
}

var (
	encryptKeyRe = regexp.MustCompile(`/Encrypt[\s/<\[]`)
	pageObjRe    = regexp.MustCompile(`/Type\s*/Page\b`)
)

func probeStructure(path string) (structInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return structInfo{}, err
	}
	return structInfo{
		encrypted: encryptKeyRe.Match(data),
		pageCount: len(pageObjRe.FindAll(data, -1)),
	}, nil
}
