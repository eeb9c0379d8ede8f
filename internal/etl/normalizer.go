// Package etl normalizes raw parsed-document payloads into canonical
// Documents. Normalization is a pure transform: persistence is the caller's
// decision.
package etl

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siftlabs/docsift/internal/domain"
)

// Normalizer converts raw ingestion payloads into domain Documents.
type Normalizer struct {
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Normalizer.
func New(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger, now: time.Now}
}

// Normalize validates raw and builds a Document with a fresh document id,
// a checksum over the raw payload, and canonicalized content items.
// Validation failures return a *domain.ValidationError carrying every
// violation found.
func (n *Normalizer) Normalize(raw map[string]any, sourcePath string) (domain.Document, error) {
	if violations := validate(raw); len(violations) > 0 {
		return domain.Document{}, &domain.ValidationError{Violations: violations}
	}

	doc := domain.Document{
		DocumentID:      uuid.NewString(),
		Filename:        stringField(raw, "filename"),
		FilePath:        sourcePath,
		TotalPages:      intFieldOr(raw, "total_pages", 1),
		FileSize:        int64(intFieldOr(raw, "file_size", 0)),
		Checksum:        n.checksum(raw),
		UploadTimestamp: n.now(),
	}

	items, _ := raw["content"].([]any)
	doc.Content = make([]domain.ContentItem, 0, len(items))
	for _, entry := range items {
		item, _ := entry.(map[string]any)
		doc.Content = append(doc.Content, normalizeItem(item))
	}

	n.logger.Info("normalized document",
		zap.String("document_id", doc.DocumentID),
		zap.String("filename", doc.Filename),
		zap.Int("content_items", len(doc.Content)),
	)
	return doc, nil
}

// normalizeItem canonicalizes one raw content entry. Missing page defaults
// to 1, missing position to the zero rectangle.
func normalizeItem(item map[string]any) domain.ContentItem {
	out := domain.ContentItem{
		ContentType: domain.ParseContentType(stringField(item, "type")),
		Content:     stringField(item, "content"),
		PageNumber:  intFieldOr(item, "page", 1),
		Metadata:    map[string]any{},
	}

	if pos, ok := item["position"].(map[string]any); ok {
		out.Position = domain.Position{
			X:      floatField(pos, "x"),
			Y:      floatField(pos, "y"),
			Width:  floatField(pos, "width"),
			Height: floatField(pos, "height"),
		}
	}
	if meta, ok := item["metadata"].(map[string]any); ok {
		out.Metadata = meta
	}
	return out
}

// checksum fingerprints the raw payload via canonical JSON (sorted keys,
// unicode preserved). If serialization fails, it degrades to a hash of the
// current wall-clock time; that checksum is collision-prone and is only a
// last resort, so it is logged as a warning.
func (n *Normalizer) checksum(raw map[string]any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(raw); err != nil {
		n.logger.Warn("payload serialization failed, using time-based checksum", zap.Error(err))
		sum := md5.Sum([]byte(n.now().String()))
		return hex.EncodeToString(sum[:])
	}
	sum := md5.Sum(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return hex.EncodeToString(sum[:])
}

// validate collects all structural violations in the raw payload.
func validate(raw map[string]any) []string {
	var violations []string

	if stringField(raw, "filename") == "" {
		violations = append(violations, "missing required field: filename")
	}

	switch content := raw["content"].(type) {
	case nil:
		violations = append(violations, "missing required field: content")
	case []any:
		if len(content) == 0 {
			violations = append(violations, "missing required field: content")
		}
		for i, entry := range content {
			item, ok := entry.(map[string]any)
			if !ok {
				violations = append(violations, fmt.Sprintf("content item %d must be an object", i))
				continue
			}
			if stringField(item, "content") == "" {
				violations = append(violations, fmt.Sprintf("content item %d missing content field", i))
			}
			if v, present := item["page"]; present {
				if _, ok := asInt(v); !ok {
					violations = append(violations, fmt.Sprintf("content item %d page must be an integer", i))
				}
			}
			if v, present := item["position"]; present {
				if _, ok := v.(map[string]any); !ok {
					violations = append(violations, fmt.Sprintf("content item %d position must be an object", i))
				}
			}
		}
	default:
		violations = append(violations, "content must be a list")
	}

	for _, field := range []string{"total_pages", "file_size"} {
		if v, present := raw[field]; present {
			if _, ok := asInt(v); !ok {
				violations = append(violations, field+" must be an integer")
			}
		}
	}

	return violations
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intFieldOr(m map[string]any, key string, fallback int) int {
	if v, ok := asInt(m[key]); ok {
		return v
	}
	return fallback
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

// asInt accepts the numeric shapes JSON decoding can produce. Floats only
// count when they carry no fractional part.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}
