package index

// Mapping is the fixed schema of the document index. Top-level fields are
// flat; content is a nested collection so per-entry filters and the text
// match apply to the same entry. Item metadata is stored but not indexed.
const Mapping = `{
  "mappings": {
    "properties": {
      "document_id": {"type": "keyword"},
      "filename": {"type": "text", "analyzer": "standard"},
      "file_path": {"type": "keyword"},
      "total_pages": {"type": "integer"},
      "file_size": {"type": "long"},
      "checksum": {"type": "keyword"},
      "upload_timestamp": {"type": "date"},
      "content": {
        "type": "nested",
        "properties": {
          "content_type": {"type": "keyword"},
          "content": {
            "type": "text",
            "analyzer": "standard",
            "fields": {
              "keyword": {"type": "keyword", "ignore_above": 8191}
            }
          },
          "page_number": {"type": "integer"},
          "position": {
            "properties": {
              "x": {"type": "float"},
              "y": {"type": "float"},
              "width": {"type": "float"},
              "height": {"type": "float"}
            }
          },
          "metadata": {"type": "object", "enabled": false}
        }
      }
    }
  },
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  }
}`
