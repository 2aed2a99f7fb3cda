package blog

// Mode is the research mode chosen by the router.
type Mode string

const (
	ModeClosedBook Mode = "closed_book"
	ModeHybrid     Mode = "hybrid"
	ModeOpenBook   Mode = "open_book"
)

// RecencyDays returns the evidence window for the mode. Unknown modes get
// the closed-book window.
func (m Mode) RecencyDays() int {
	switch m {
	case ModeOpenBook:
		return 7
	case ModeHybrid:
		return 45
	default:
		return 3650
	}
}

// Kind is the kind of post being written.
type Kind string

const (
	KindExplainer    Kind = "explainer"
	KindTutorial     Kind = "tutorial"
	KindNewsRoundup  Kind = "news_roundup"
	KindComparison   Kind = "comparison"
	KindSystemDesign Kind = "system_design"
)

// Task is one section of the outline. Each task is written by exactly one
// worker and its ID orders the merged document.
type Task struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	Goal              string   `json:"goal"`
	Bullets           []string `json:"bullets"`
	TargetWords       int      `json:"target_words"`
	Tags              []string `json:"tags"`
	RequiresResearch  bool     `json:"requires_research"`
	RequiresCitations bool     `json:"requires_citations"`
	RequiresCode      bool     `json:"requires_code"`
}

// Plan is the outline produced by the planner.
type Plan struct {
	BlogTitle   string   `json:"blog_title"`
	Audience    string   `json:"audience"`
	Tone        string   `json:"tone"`
	BlogKind    Kind     `json:"blog_kind"`
	Constraints []string `json:"constraints"`
	Tasks       []Task   `json:"tasks"`
}

// EvidenceItem is one synthesized search result. URL is its identity.
type EvidenceItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"` // YYYY-MM-DD, or empty when unknown
	Snippet     string `json:"snippet"`
	Source      string `json:"source"`
}

// EvidencePack is the structured output of research synthesis.
type EvidencePack struct {
	Evidence []EvidenceItem `json:"evidence"`
}

// DefaultMaxResultsPerQuery applies when the router leaves it unset.
const DefaultMaxResultsPerQuery = 5

// RouterDecision is the router's structured output.
type RouterDecision struct {
	NeedsResearch      bool     `json:"needs_research"`
	Mode               Mode     `json:"mode"`
	Reason             string   `json:"reason"`
	Queries            []string `json:"queries"`
	MaxResultsPerQuery int      `json:"max_results_per_query"`
}

// ImageSpec describes one illustration to render and where it goes.
type ImageSpec struct {
	Placeholder string `json:"placeholder"` // e.g. [[IMAGE_1]]
	Filename    string `json:"filename"`    // saved under images/
	Alt         string `json:"alt"`
	Caption     string `json:"caption"`
	Prompt      string `json:"prompt"`
	Size        string `json:"size"`
	Quality     string `json:"quality"`
}

// Default image parameters.
const (
	DefaultImageSize    = "1024x1024"
	DefaultImageQuality = "medium"
)

// GlobalImagePlan is the structured output of the image decision.
type GlobalImagePlan struct {
	MarkdownWithPlaceholders string      `json:"md_with_placeholders"`
	Images                   []ImageSpec `json:"images"`
}

// Section is one worker's contribution.
type Section struct {
	TaskID   int    `json:"task_id"`
	Markdown string `json:"markdown"`
}
