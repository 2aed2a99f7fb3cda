package blog

// State is the shared state of one run. Stages read a snapshot and return
// an Update; only the workflow applies updates.
type State struct {
	Topic         string         `json:"topic"`
	Mode          Mode           `json:"mode"`
	NeedsResearch bool           `json:"needs_research"`
	Queries       []string       `json:"queries"`
	Evidence      []EvidenceItem `json:"evidence"`
	Plan          *Plan          `json:"plan,omitempty"`
	AsOf          string         `json:"as_of"`
	RecencyDays   int            `json:"recency_days"`

	Sections []Section `json:"sections"`

	MergedMarkdown           string      `json:"merged_md"`
	MarkdownWithPlaceholders string      `json:"md_with_placeholders"`
	ImageSpecs               []ImageSpec `json:"image_specs"`
	FinalMarkdown            string      `json:"final"`

	Warnings   []string `json:"warnings"`
	OutputPath string   `json:"output_path"`
}

// Update is a partial state change. Nil fields are left untouched.
// Sections and Warnings accumulate; every other field replaces.
type Update struct {
	Mode          *Mode          `json:"mode,omitempty"`
	NeedsResearch *bool          `json:"needs_research,omitempty"`
	Queries       []string       `json:"queries,omitempty"`
	Evidence      []EvidenceItem `json:"evidence,omitempty"`
	Plan          *Plan          `json:"plan,omitempty"`
	RecencyDays   *int           `json:"recency_days,omitempty"`

	Sections []Section `json:"sections,omitempty"`

	MergedMarkdown           *string     `json:"merged_md,omitempty"`
	MarkdownWithPlaceholders *string     `json:"md_with_placeholders,omitempty"`
	ImageSpecs               []ImageSpec `json:"image_specs,omitempty"`
	FinalMarkdown            *string     `json:"final,omitempty"`

	Warnings   []string `json:"warnings,omitempty"`
	OutputPath *string  `json:"output_path,omitempty"`
}

// Apply merges u into s.
func (u *Update) Apply(s *State) {
	if u == nil {
		return
	}
	if u.Mode != nil {
		s.Mode = *u.Mode
	}
	if u.NeedsResearch != nil {
		s.NeedsResearch = *u.NeedsResearch
	}
	if u.Queries != nil {
		s.Queries = u.Queries
	}
	if u.Evidence != nil {
		s.Evidence = u.Evidence
	}
	if u.Plan != nil {
		s.Plan = u.Plan
	}
	if u.RecencyDays != nil {
		s.RecencyDays = *u.RecencyDays
	}
	if u.MergedMarkdown != nil {
		s.MergedMarkdown = *u.MergedMarkdown
	}
	if u.MarkdownWithPlaceholders != nil {
		s.MarkdownWithPlaceholders = *u.MarkdownWithPlaceholders
	}
	if u.ImageSpecs != nil {
		s.ImageSpecs = u.ImageSpecs
	}
	if u.FinalMarkdown != nil {
		s.FinalMarkdown = *u.FinalMarkdown
	}
	if u.OutputPath != nil {
		s.OutputPath = *u.OutputPath
	}

	// Accumulators get a fresh backing array so concurrent snapshots never
	// observe a partially written append.
	if len(u.Sections) > 0 {
		s.Sections = append(append(make([]Section, 0, len(s.Sections)+len(u.Sections)), s.Sections...), u.Sections...)
	}
	if len(u.Warnings) > 0 {
		s.Warnings = append(append(make([]string, 0, len(s.Warnings)+len(u.Warnings)), s.Warnings...), u.Warnings...)
	}
}

// WarningMessages returns the warnings this update adds.
func (u *Update) WarningMessages() []string {
	if u == nil {
		return nil
	}
	return u.Warnings
}

// Ptr returns a pointer to v, for building updates.
func Ptr[T any](v T) *T {
	return &v
}
