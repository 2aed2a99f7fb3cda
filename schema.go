package blogsmith

import "encoding/json"

// ResponseSchema names a JSON schema a structured reply must satisfy.
// Build the Schema field with the schema package.
type ResponseSchema struct {
	// Name identifies the schema to the provider ("plan", "router_decision").
	Name string
	// Description is passed to providers that accept one.
	Description string
	// Schema is the JSON Schema document.
	Schema json.RawMessage
}

// SchemaMap decodes the schema into a generic map, the shape most
// provider SDKs expect. A malformed schema yields an empty object schema.
func (s ResponseSchema) SchemaMap() map[string]any {
	var m map[string]any
	if err := json.Unmarshal(s.Schema, &m); err != nil || m == nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return m
}
