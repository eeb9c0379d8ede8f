package domain

import (
	"strings"
	"time"
)

// ContentType classifies one extracted unit of document content.
type ContentType string

const (
	ContentTypeParagraph ContentType = "paragraph"
	ContentTypeImage     ContentType = "image"
	ContentTypeTable     ContentType = "table"
)

// contentTypeAliases maps raw parser type strings (including common
// abbreviations) to canonical content types. Lookups are case-insensitive.
var contentTypeAliases = map[string]ContentType{
	"paragraph": ContentTypeParagraph,
	"text":      ContentTypeParagraph,
	"image":     ContentTypeImage,
	"img":       ContentTypeImage,
	"table":     ContentTypeTable,
	"tab":       ContentTypeTable,
}

// ParseContentType maps a raw type string to a ContentType.
// Unrecognized values map to paragraph rather than failing, so a parser
// emitting a new type never blocks ingestion.
func ParseContentType(s string) ContentType {
	if ct, ok := LookupContentType(s); ok {
		return ct
	}
	return ContentTypeParagraph
}

// LookupContentType maps a raw type string to a ContentType, reporting
// whether the value is recognized. Callers that must reject unknown values,
// such as search filters, use this instead of ParseContentType.
func LookupContentType(s string) (ContentType, bool) {
	ct, ok := contentTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return ct, ok
}

// IsValid reports whether ct is one of the canonical content types.
func (ct ContentType) IsValid() bool {
	switch ct {
	case ContentTypeParagraph, ContentTypeImage, ContentTypeTable:
		return true
	}
	return false
}

// Position is the bounding rectangle of a content item on its page.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ContentItem is one extracted unit of document content. Metadata is stored
// alongside the item but never indexed for search.
type ContentItem struct {
	ContentType ContentType    `json:"content_type"`
	Content     string         `json:"content"`
	PageNumber  int            `json:"page_number"`
	Position    Position       `json:"position"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Document is a fully normalized ingested document. DocumentID is assigned
// once at normalization time and never recomputed; Checksum is a fingerprint
// of the raw input payload, so re-ingesting identical input yields a new
// DocumentID but an equal Checksum.
type Document struct {
	DocumentID      string        `json:"document_id"`
	Filename        string        `json:"filename"`
	FilePath        string        `json:"file_path"`
	TotalPages      int           `json:"total_pages"`
	FileSize        int64         `json:"file_size"`
	Checksum        string        `json:"checksum"`
	UploadTimestamp time.Time     `json:"upload_timestamp"`
	Content         []ContentItem `json:"content"`
}
