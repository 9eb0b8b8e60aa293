package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionPageSchema guards the shape of GET /questions payloads before
// the client walks them. Question option contents stay loose on purpose:
// the closed-type decode in the question package handles those.
const questionPageSchema = `{
	"type": "object",
	"required": ["page", "questions", "navigation"],
	"properties": {
		"page": {
			"type": "object",
			"required": ["module"],
			"properties": {
				"id": {"type": "integer"},
				"module": {"type": "string"},
				"chapter_number": {"type": "integer"}
			}
		},
		"questions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "type", "text"],
				"properties": {
					"id": {"type": "integer"},
					"type": {
						"enum": ["slider", "mcq", "mcq-single", "mcq-multiple", "ordering", "essay"]
					},
					"text": {"type": "string"},
					"required": {"type": "boolean"},
					"options": {"type": "object"}
				}
			}
		},
		"navigation": {
			"type": "object",
			"properties": {
				"current_page": {"type": "integer"},
				"total_pages": {"type": "integer"},
				"previous_page_id": {"type": ["integer", "null"]},
				"next_page_id": {"type": ["integer", "null"]}
			}
		}
	}
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiledQuestionPageSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(questionPageSchema), &doc); err != nil {
			compileErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const schemaURL = "schema://question-page.json"
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// validateQuestionPage checks a raw questions payload against the page
// schema. Returns *ErrInvalidPayload on failure.
func validateQuestionPage(raw json.RawMessage) error {
	schema, err := compiledQuestionPageSchema()
	if err != nil {
		return fmt.Errorf("question page schema: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := schema.Validate(parsed); err != nil {
		return &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}
