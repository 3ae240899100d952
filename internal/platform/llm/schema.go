package llm

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// SchemaFor reflects a Go struct's `jsonschema` tags into the property map
// GenerateJSON expects, the same reflector idiom used to build tool-call
// argument schemas for structured LLM output.
func SchemaFor[T any]() map[string]any {
	reflector := jsonschema.Reflector{AllowAdditionalProperties: false, DoNotReference: true}
	var v T
	schema := reflector.Reflect(v)
	raw, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
