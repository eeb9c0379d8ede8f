package index

import (
	"github.com/siftlabs/docsift/internal/domain"
)

// timestampLayout keeps the indexed timestamp at millisecond precision,
// matching the date field type.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// indexedDocument is the storage representation of a Document.
type indexedDocument struct {
	DocumentID      string        `json:"document_id"`
	Filename        string        `json:"filename"`
	FilePath        string        `json:"file_path"`
	TotalPages      int           `json:"total_pages"`
	FileSize        int64         `json:"file_size"`
	Checksum        string        `json:"checksum"`
	UploadTimestamp string        `json:"upload_timestamp"`
	Content         []indexedItem `json:"content"`
}

type indexedItem struct {
	ContentType string          `json:"content_type"`
	Content     string          `json:"content"`
	PageNumber  int             `json:"page_number"`
	Position    domain.Position `json:"position"`
	Metadata    map[string]any  `json:"metadata"`
}

func toIndexed(doc *domain.Document) indexedDocument {
	out := indexedDocument{
		DocumentID:      doc.DocumentID,
		Filename:        doc.Filename,
		FilePath:        doc.FilePath,
		TotalPages:      doc.TotalPages,
		FileSize:        doc.FileSize,
		Checksum:        doc.Checksum,
		UploadTimestamp: doc.UploadTimestamp.UTC().Format(timestampLayout),
		Content:         make([]indexedItem, 0, len(doc.Content)),
	}
	for _, item := range doc.Content {
		meta := item.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		out.Content = append(out.Content, indexedItem{
			ContentType: string(item.ContentType),
			Content:     item.Content,
			PageNumber:  item.PageNumber,
			Position:    item.Position,
			Metadata:    meta,
		})
	}
	return out
}
