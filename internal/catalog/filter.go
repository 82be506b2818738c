package catalog

import (
	"strings"

	"github.com/jonathan/careerpilot/internal/types"
)

// JobFilter narrows a job list. Zero fields match everything.
type JobFilter struct {
	// Query matches title or company, case-insensitively.
	Query string
	// Location is a case-insensitive substring of the job location.
	Location  string
	Seniority types.SeniorityTier
	// MaxExperienceYears drops jobs asking for more years. Zero disables it.
	MaxExperienceYears int
}

// FilterJobs returns the jobs matching f, keeping catalog order. The input is not modified.
func FilterJobs(jobs []types.JobPosting, f JobFilter) []types.JobPosting {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	location := strings.ToLower(strings.TrimSpace(f.Location))

	out := make([]types.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if query != "" &&
			!strings.Contains(strings.ToLower(job.Title), query) &&
			!strings.Contains(strings.ToLower(job.Company), query) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(job.Location), location) {
			continue
		}
		if f.Seniority != types.TierUnknown && job.Seniority != f.Seniority {
			continue
		}
		if f.MaxExperienceYears > 0 && job.MinExperienceYears > f.MaxExperienceYears {
			continue
		}
		out = append(out, job)
	}
	return out
}
