package blog

import (
	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/schema"
)

// Every property is required so the schemas are accepted by strict
// structured-output modes. Optional values are null, empty strings or
// empty arrays.

var evidenceItemSchema = schema.Object().
	Field("title", schema.String().Required()).
	Field("url", schema.String().Desc("Source URL, never empty").MinLength(1).Required()).
	Field("published_at", schema.String().Nullable().Desc("ISO YYYY-MM-DD when reliably known, otherwise null").Required()).
	Field("snippet", schema.String().Desc("Short excerpt").Required()).
	Field("source", schema.String().Nullable().Desc("Publisher name, or null").Required()).
	StrictMode()

var taskSchema = schema.Object().
	Field("id", schema.Int().Desc("Unique section number; sections are ordered by it").Required()).
	Field("title", schema.String().Required()).
	Field("goal", schema.String().Desc("One sentence describing what the reader should do or understand").Required()).
	Field("bullets", schema.Array(schema.String()).MinItems(3).MaxItems(6).Required()).
	Field("target_words", schema.Int().Desc("Target words (120-550)").Required()).
	Field("tags", schema.Array(schema.String()).Required()).
	Field("requires_research", schema.Bool().Required()).
	Field("requires_citations", schema.Bool().Required()).
	Field("requires_code", schema.Bool().Required()).
	StrictMode()

var imageSpecSchema = schema.Object().
	Field("placeholder", schema.String().Desc("e.g. [[IMAGE_1]]").Required()).
	Field("filename", schema.String().Desc("File name under images/, e.g. qkv_flow.png").MinLength(1).Required()).
	Field("alt", schema.String().Required()).
	Field("caption", schema.String().Required()).
	Field("prompt", schema.String().Desc("Prompt to send to the image model").Required()).
	Field("size", schema.String().Enum("1024x1024", "1024x1536", "1536x1024").Required()).
	Field("quality", schema.String().Enum("low", "medium", "high").Required()).
	StrictMode()

// RouterDecisionSchema is the response schema for the router.
var RouterDecisionSchema = ai.ResponseSchema{
	Name:        "router_decision",
	Description: "Whether web research is needed before planning",
	Schema: schema.Object().
		Field("needs_research", schema.Bool().Required()).
		Field("mode", schema.String().Enum(string(ModeClosedBook), string(ModeHybrid), string(ModeOpenBook)).Required()).
		Field("reason", schema.String().Required()).
		Field("queries", schema.Array(schema.String()).Desc("3-10 scoped search queries when research is needed").Required()).
		Field("max_results_per_query", schema.Int().Required()).
		StrictMode().
		MustBuild(),
}

// EvidencePackSchema is the response schema for research synthesis.
var EvidencePackSchema = ai.ResponseSchema{
	Name:        "evidence_pack",
	Description: "Evidence synthesized from raw search results",
	Schema: schema.Object().
		Field("evidence", schema.Array(evidenceItemSchema).Required()).
		StrictMode().
		MustBuild(),
}

// PlanSchema is the response schema for the planner.
var PlanSchema = ai.ResponseSchema{
	Name:        "plan",
	Description: "Outline of a technical blog post",
	Schema: schema.Object().
		Field("blog_title", schema.String().Required()).
		Field("audience", schema.String().Required()).
		Field("tone", schema.String().Required()).
		Field("blog_kind", schema.String().Enum(
			string(KindExplainer), string(KindTutorial), string(KindNewsRoundup),
			string(KindComparison), string(KindSystemDesign)).Required()).
		Field("constraints", schema.Array(schema.String()).Required()).
		Field("tasks", schema.Array(taskSchema).MinItems(1).Required()).
		StrictMode().
		MustBuild(),
}

// GlobalImagePlanSchema is the response schema for the image decision.
var GlobalImagePlanSchema = ai.ResponseSchema{
	Name:        "global_image_plan",
	Description: "The post with image placeholders inserted, and one spec per placeholder",
	Schema: schema.Object().
		Field("md_with_placeholders", schema.String().Required()).
		Field("images", schema.Array(imageSpecSchema).Required()).
		StrictMode().
		MustBuild(),
}
