package openai

import (
	"slices"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/blogsmith"
)

// unsupportedKeywords are rejected by strict structured outputs. The gateway
// re-checks replies against the full schema, so dropping them loses nothing.
var unsupportedKeywords = []string{
	"minItems", "maxItems", "minLength", "maxLength", "minimum", "maximum", "pattern",
}

func buildSchemaFormat(schema *ai.ResponseSchema) openai.ChatCompletionNewParamsResponseFormatUnion {
	schemaMap := schema.SchemaMap()
	strictify(schemaMap)

	name := schema.Name
	if name == "" {
		name = "response_schema"
	}

	format := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   name,
		Schema: schemaMap,
		Strict: openai.Bool(true),
	}
	if schema.Description != "" {
		format.Description = openai.String(schema.Description)
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			Type:       "json_schema",
			JSONSchema: format,
		},
	}
}

// strictify rewrites a schema in place for strict mode: every object closes
// additionalProperties and lists all of its properties as required.
func strictify(schema map[string]any) {
	if schema == nil {
		return
	}
	for _, kw := range unsupportedKeywords {
		delete(schema, kw)
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		schema["additionalProperties"] = false
		required := make([]string, 0, len(props))
		for name, prop := range props {
			required = append(required, name)
			if m, ok := prop.(map[string]any); ok {
				strictify(m)
			}
		}
		slices.Sort(required)
		schema["required"] = required
	} else if t, _ := schema["type"].(string); t == "object" {
		schema["additionalProperties"] = false
	}

	if items, ok := schema["items"].(map[string]any); ok {
		strictify(items)
	}
}
