package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/spetersoncode/blogsmith"
)

// jsonToolName is the synthetic tool the model is forced to call.
const jsonToolName = "emit_structured_response"

func buildJSONTool(rs *ai.ResponseSchema) (anthropic.ToolUnionParam, anthropic.ToolChoiceUnionParam) {
	schema := rs.SchemaMap()

	description := "Return the response as structured JSON"
	if rs.Description != "" {
		description = rs.Description
	}

	tool := anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        jsonToolName,
			Description: anthropic.String(description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema["properties"],
				Required:   requiredFields(schema),
			},
		},
	}
	choice := anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{Name: jsonToolName},
	}
	return tool, choice
}

func requiredFields(schema map[string]any) []string {
	raw, _ := schema["required"].([]any)
	required := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			required = append(required, s)
		}
	}
	return required
}
