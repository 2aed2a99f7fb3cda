package blog

import (
	"errors"
	"fmt"
)

// Validate checks the invariants a plan must satisfy before fan-out: at
// least one task and unique task IDs. The planner also normalizes the
// default kind.
func (p *Plan) Validate() error {
	if len(p.Tasks) == 0 {
		return errors.New("plan has no tasks")
	}
	seen := make(map[int]bool, len(p.Tasks))
	for _, t := range p.Tasks {
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// Normalize fills defaults left empty by the model.
func (p *Plan) Normalize() {
	if p.BlogKind == "" {
		p.BlogKind = KindExplainer
	}
}

// Normalize fills defaults left empty by the model.
func (d *RouterDecision) Normalize() {
	if d.MaxResultsPerQuery <= 0 {
		d.MaxResultsPerQuery = DefaultMaxResultsPerQuery
	}
	if d.Mode == "" {
		d.Mode = ModeClosedBook
	}
}

// Normalize fills defaults left empty by the model.
func (s *ImageSpec) Normalize() {
	if s.Size == "" {
		s.Size = DefaultImageSize
	}
	if s.Quality == "" {
		s.Quality = DefaultImageQuality
	}
}
