package quiz

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const questionSchemaURL = "schema://generated-question.json"

// questionSchema is the shape a generated question must have before it is
// accepted. Only the prompt is required; the rest gets defaults.
var questionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id": map[string]any{"type": "string"},
		"card_type": map[string]any{
			"type": "string",
		},
		"question": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"options": map[string]any{
			"type":  []any{"array", "null"},
			"items": map[string]any{"type": "string"},
		},
		"answer": map[string]any{
			"type": []any{"string", "array", "null"},
		},
		"hint": map[string]any{"type": []any{"string", "null"}},
	},
	"required": []any{"question"},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledQuestionSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go literals.
		defBytes, err := json.Marshal(questionSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(questionSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(questionSchemaURL)
	})
	return compiled, compileErr
}
