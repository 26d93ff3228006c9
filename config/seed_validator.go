package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SeedValidator validates seed documents against the schema
type SeedValidator struct {
	schema *gojsonschema.Schema
}

// NewSeedValidator creates a new seed validator
func NewSeedValidator() (*SeedValidator, error) {
	schemaLoader := gojsonschema.NewBytesLoader([]byte(seedDocumentSchema))
	schema, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &SeedValidator{
		schema: schema,
	}, nil
}

// Validate validates a single seed document against the schema
func (sv *SeedValidator) Validate(doc SeedDocument) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	documentLoader := gojsonschema.NewBytesLoader(docJSON)
	result, err := sv.schema.Validate(documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		var errors []string
		for _, err := range result.Errors() {
			errors = append(errors, fmt.Sprintf("- %s", err))
		}
		return fmt.Errorf("seed document validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

// ValidateAll validates every document in a seed file
func (sv *SeedValidator) ValidateAll(seed *SeedFile) error {
	if len(seed.Documents) == 0 {
		return fmt.Errorf("seed file contains no documents")
	}
	for i, doc := range seed.Documents {
		if err := sv.Validate(doc); err != nil {
			return fmt.Errorf("validation failed for document %d: %w", i, err)
		}
	}
	return nil
}

const seedDocumentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Seed Document Schema",
  "type": "object",
  "required": ["module", "type", "content"],
  "properties": {
    "module": {
      "type": "string",
      "minLength": 1
    },
    "type": {
      "type": "string",
      "enum": ["rule", "task"]
    },
    "content": {
      "type": "string",
      "minLength": 1
    },
    "user_id": {
      "type": "string"
    },
    "source_row": {
      "type": "integer",
      "minimum": 0
    }
  }
}`
