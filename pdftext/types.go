// CLAUDE:SUMMARY Defines the Page and Metadata records produced by the pdftext pipeline.
package pdftext

// Page holds the text extracted from a single document page.
type Page struct {
	PageNumber int    `json:"page_number"` // 1-indexed, document order
	Text       string `json:"text"`
	CharCount  int    `json:"char_count"` // runes in Text after normalization
}

// Metadata describes a PDF file and its document-info dictionary.
//
// Fields holds one entry per configured metadata field. A nil value means
// the document does not carry that field; it is never omitted from the map.
type Metadata struct {
	FileName    string             `json:"file_name"`
	FilePath    string             `json:"file_path"` // absolute
	FileSizeMB  float64            `json:"file_size_mb"`
	PageCount   int                `json:"page_count"`
	IsEncrypted bool               `json:"is_encrypted"`
	Fields      map[string]*string `json:"fields"`
}
