// Package schema provides a fluent API for building JSON Schema documents
// for structured model output, and a checker that validates replies
// against them.
//
// # Building
//
//	decision := schema.Object().
//		Field("needs_research", schema.Bool().Required()).
//		Field("mode", schema.String().Enum("closed_book", "hybrid", "open_book").Required()).
//		Field("queries", schema.Array(schema.String()).MaxItems(10).Required()).
//		StrictMode().
//		MustBuild()
//
// Builders validate themselves on Build: an array without items, or a
// minimum above its maximum, is reported as a *ValidationError.
//
// # Checking
//
// Providers do not all enforce every keyword (OpenAI strict mode rejects
// minItems, Gemini ignores pattern), so the gateway re-checks each reply:
//
//	if err := schema.Check(decision, reply); err != nil {
//		// err is an *InstanceError wrapping the validator's report
//	}
//
// Validation is done by github.com/google/jsonschema-go.
package schema
