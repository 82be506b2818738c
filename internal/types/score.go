// Package types provides type definitions for structured data used throughout the careerpilot engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// BreakdownTolerance is the largest allowed gap between a total and the sum of its contributions.
const BreakdownTolerance = 0.01

// ScoreResult is a score in [0,100] with the contribution of each component.
type ScoreResult struct {
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// Sum adds up the breakdown contributions.
func (r ScoreResult) Sum() float64 {
	sum := 0.0
	for _, v := range r.Breakdown {
		sum += v
	}
	return sum
}

// GapReport lists the target skills a candidate lacks and the ones they already have.
// Missing is ordered most-impactful first.
type GapReport struct {
	CandidateID   string        `json:"candidate_id,omitempty"`
	Target        string        `json:"target,omitempty"`
	Missing       []SkillToken  `json:"missing"`
	Matched       []SkillToken  `json:"matched"`
	CandidateTier SeniorityTier `json:"candidate_tier"`
}

// MissingSet returns the missing skills as a set.
func (g *GapReport) MissingSet() SkillSet {
	if g.Missing == nil {
		return nil
	}
	return NewSkillSet(g.Missing...)
}
