package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// documentSchema describes an export document. It checks shape only; ids
// referenced across prompts and tags are checked by the store on import.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["prompts", "tags"],
  "properties": {
    "version": {"type": "string"},
    "exportedAt": {"type": "string"},
    "tags": {"type": "array", "items": {"$ref": "#/definitions/tag"}},
    "prompts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string", "minLength": 1},
          "description": {"type": ["string", "null"]},
          "cluster_group": {"type": ["string", "null"]},
          "cluster_keywords": {"type": ["string", "null"]},
          "created_at": {"type": ["integer", "null"]},
          "updated_at": {"type": ["integer", "null"]},
          "blocks": {
            "type": ["array", "null"],
            "items": {
              "type": "object",
              "required": ["id", "content"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "type": {"enum": ["text", "code", "", null]},
                "content": {"type": "string"},
                "sort_order": {"type": "integer"},
                "meta_json": {"type": ["string", "null"]}
              }
            }
          },
          "tags": {"type": ["array", "null"], "items": {"$ref": "#/definitions/tag"}}
        }
      }
    }
  },
  "definitions": {
    "tag": {
      "type": "object",
      "required": ["id", "name"],
      "properties": {
        "id": {"type": "integer", "minimum": 1},
        "name": {"type": "string", "minLength": 1}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("export.json", strings.NewReader(documentSchema)); err != nil {
			schemaErr = fmt.Errorf("loading export schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("export.json")
	})
	return compiledSchema, schemaErr
}

// ValidateJSON checks raw against the export document schema. A document
// that does not match is reported as types.ErrInvalidSnapshot.
func ValidateJSON(raw []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidSnapshot, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidSnapshot, err)
	}
	return nil
}

// DecodeJSON validates raw against the export schema and decodes it.
func DecodeJSON(raw []byte) (*types.ExportDocument, error) {
	if err := ValidateJSON(raw); err != nil {
		return nil, err
	}
	var doc types.ExportDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidSnapshot, err)
	}
	return &doc, nil
}
