// Package types provides type definitions for structured data used throughout the careerpilot engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobPosting is a read-only catalog entry describing an open position.
// RequiredSkills and PreferredSkills must be present; either may be empty.
type JobPosting struct {
	ID                 string        `json:"id" validate:"required"`
	Title              string        `json:"title" validate:"required"`
	Company            string        `json:"company,omitempty"`
	Location           string        `json:"location,omitempty"`
	RequiredSkills     []string      `json:"required_skills" validate:"required"`
	PreferredSkills    []string      `json:"preferred_skills" validate:"required"`
	MinExperienceYears int           `json:"min_experience_years" validate:"min=0"`
	Seniority          SeniorityTier `json:"seniority" validate:"required"`
}

// CourseRecord is a read-only catalog entry describing a course.
type CourseRecord struct {
	ID              string        `json:"id" validate:"required"`
	Title           string        `json:"title" validate:"required"`
	Platform        string        `json:"platform,omitempty"`
	SkillsTaught    []string      `json:"skills_taught" validate:"required"`
	TargetSeniority SeniorityTier `json:"target_seniority" validate:"required"`
	DurationHours   float64       `json:"duration_hours" validate:"gt=0"`
	TargetRole      string        `json:"target_role,omitempty"`
	Rating          float64       `json:"rating,omitempty" validate:"min=0,max=5"`
}

// RoleTarget is a role tag with the skills it requires, used for role-based gap analysis.
// Importance is optional; unlisted skills weigh 1.
type RoleTarget struct {
	Tag        string             `json:"tag" validate:"required"`
	Skills     []string           `json:"skills" validate:"required"`
	Importance map[string]float64 `json:"importance,omitempty"`
	Seniority  SeniorityTier      `json:"seniority,omitempty"`
}

// Validate checks the posting's required fields and ranges.
func (j *JobPosting) Validate() error {
	return fromValidation(newValidator().Struct(j))
}

// Validate checks the course's required fields and ranges.
func (c *CourseRecord) Validate() error {
	return fromValidation(newValidator().Struct(c))
}

// Validate checks the role's required fields.
func (r *RoleTarget) Validate() error {
	return fromValidation(newValidator().Struct(r))
}
