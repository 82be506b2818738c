// Package types provides type definitions for structured data used throughout the careerpilot engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// PeriodLayout is the layout of WorkEntry start and end periods.
const PeriodLayout = "2006-01"

// ResumeProfile is the structured resume built from the resume form.
type ResumeProfile struct {
	CandidateID string           `json:"candidate_id"`
	Name        string           `json:"name"`
	Contact     Contact          `json:"contact"`
	Work        []WorkEntry      `json:"work" validate:"dive"`
	Education   []EducationEntry `json:"education" validate:"dive"`
	Skills      []string         `json:"skills"`
	Projects    []ProjectEntry   `json:"projects" validate:"dive"`
}

// Contact holds the candidate's contact details.
type Contact struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// WorkEntry is one position. An empty End means the position is current.
type WorkEntry struct {
	Role         string   `json:"role"`
	Organization string   `json:"organization"`
	Start        string   `json:"start" validate:"required,datetime=2006-01"`
	End          string   `json:"end,omitempty" validate:"omitempty,datetime=2006-01"`
	Achievements []string `json:"achievements"`
	Skills       []string `json:"skills"`
}

// EducationEntry is one degree or program.
type EducationEntry struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year,omitempty"`
}

// ProjectEntry is one side project.
type ProjectEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

// Current reports whether the entry has no end period.
func (w *WorkEntry) Current() bool {
	return w.End == ""
}

// Period parses the start and end months. end is the zero time for current entries.
func (w *WorkEntry) Period() (start, end time.Time, err error) {
	start, err = time.Parse(PeriodLayout, w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidInputError{Field: "start", Message: "must match layout 2006-01", Cause: err}
	}
	if w.Current() {
		return start, time.Time{}, nil
	}
	end, err = time.Parse(PeriodLayout, w.End)
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidInputError{Field: "end", Message: "must match layout 2006-01", Cause: err}
	}
	return start, end, nil
}

// Validate checks field formats and that every work entry starts before it ends.
func (p *ResumeProfile) Validate() error {
	return fromValidation(newValidator().Struct(p))
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterStructValidation(workEntryOrder, WorkEntry{})
	return validate
}

// workEntryOrder rejects entries whose start period is after the end period.
func workEntryOrder(sl validator.StructLevel) {
	entry := sl.Current().Interface().(WorkEntry)
	if entry.Current() {
		return
	}
	start, errStart := time.Parse(PeriodLayout, entry.Start)
	end, errEnd := time.Parse(PeriodLayout, entry.End)
	if errStart != nil || errEnd != nil {
		return // reported by the datetime tag
	}
	if start.After(end) {
		sl.ReportError(entry.End, "End", "end", "period_order", "")
	}
}
