// Package features converts resume and catalog records into the feature vectors the scorer consumes.
package features

import "github.com/jonathan/careerpilot/internal/types"

// Completeness criteria counted by SectionCompleteness.
const (
	SectionName          = "name"
	SectionContact       = "contact"
	SectionWork          = "work"
	SectionEducation     = "education"
	SectionSkills        = "skills"
	SectionQuantified    = "quantified-achievement"
	completenessCriteria = 6

	// MinSkillsForSection is how many distinct skills the skills section needs to count as present.
	MinSkillsForSection = 3
)

// ResumeFeatures is the feature vector of a resume.
type ResumeFeatures struct {
	CandidateID string         `json:"candidate_id,omitempty"`
	Skills      types.SkillSet `json:"skills"`

	YearsExperience            float64 `json:"years_experience"`
	SectionCompleteness        float64 `json:"section_completeness"`
	RecencyWeight              float64 `json:"recency_weight"`
	QuantifiedAchievementRatio float64 `json:"quantified_achievement_ratio"`

	AchievementCount int                 `json:"achievement_count"`
	QuantifiedCount  int                 `json:"quantified_count"`
	InferredTier     types.SeniorityTier `json:"inferred_tier"`

	// MissingSections names the completeness criteria the resume does not meet.
	MissingSections []string `json:"missing_sections,omitempty"`
}

// TargetKind distinguishes job and course feature vectors.
type TargetKind string

const (
	KindJob    TargetKind = "job"
	KindCourse TargetKind = "course"
)

// TargetFeatures is the feature vector of a job posting or a course.
// Jobs fill Required and Preferred; courses fill Taught and DurationHours.
type TargetFeatures struct {
	Kind  TargetKind `json:"kind"`
	ID    string     `json:"id"`
	Title string     `json:"title,omitempty"`

	Required  types.SkillSet `json:"required,omitempty"`
	Preferred types.SkillSet `json:"preferred,omitempty"`
	Taught    types.SkillSet `json:"taught,omitempty"`

	MinExperienceYears int                 `json:"min_experience_years,omitempty"`
	Tier               types.SeniorityTier `json:"tier"`
	DurationHours      float64             `json:"duration_hours,omitempty"`
}
