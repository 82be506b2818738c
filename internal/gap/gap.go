// Package gap compares a candidate's skills with what a job or role asks for.
package gap

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/jonathan/careerpilot/internal/features"
	"github.com/jonathan/careerpilot/internal/skills"
	"github.com/jonathan/careerpilot/internal/types"
)

// DefaultImportance is the weight of a target skill with no importance entry.
const DefaultImportance = 1.0

// Analyze splits target into the skills the resume lacks and the ones it has.
// Both lists are ordered by descending importance, then alphabetically.
// An empty or undefined target is rejected, as is an undefined resume set.
func Analyze(resume, target types.SkillSet, importance map[types.SkillToken]float64) (*types.GapReport, error) {
	if !resume.Defined() {
		return nil, types.NewInvalidInput("resume_skills", "resume skill set is undefined")
	}
	if !target.Defined() {
		return nil, types.NewInvalidInput("target_skills", "target skill set is undefined")
	}
	if target.Len() == 0 {
		return nil, types.NewInvalidInput("target_skills", "target skill set is empty")
	}

	missing := make([]types.SkillToken, 0, target.Len())
	matched := make([]types.SkillToken, 0, target.Len())
	for token := range target {
		if resume.Has(token) {
			matched = append(matched, token)
		} else {
			missing = append(missing, token)
		}
	}

	order := byImportance(importance)
	slices.SortFunc(missing, order)
	slices.SortFunc(matched, order)

	return &types.GapReport{Missing: missing, Matched: matched}, nil
}

// ForJob analyzes a resume against a job. Required skills weigh 1.0 and preferred 0.5.
func ForJob(resume *features.ResumeFeatures, job *features.TargetFeatures) (*types.GapReport, error) {
	if resume == nil {
		return nil, types.NewInvalidInput("resume", "resume features are undefined")
	}
	if job == nil {
		return nil, types.NewInvalidInput("job", "job features are undefined")
	}

	targets, err := skills.BuildJobTargets(job.Required, job.Preferred)
	if err != nil {
		return nil, fmt.Errorf("failed to build job targets: %w", err)
	}

	report, err := Analyze(resume.Skills, skills.Tokens(targets), skills.Importance(targets))
	if err != nil {
		return nil, err
	}
	report.CandidateID = resume.CandidateID
	report.Target = job.ID
	report.CandidateTier = resume.InferredTier
	return report, nil
}

// ForRole analyzes a resume against a role target. Role skills and importance
// keys are normalized with n, or the process-wide normalizer when n is nil.
func ForRole(n *skills.Normalizer, resume *features.ResumeFeatures, role *types.RoleTarget) (*types.GapReport, error) {
	if resume == nil {
		return nil, types.NewInvalidInput("resume", "resume features are undefined")
	}
	if role == nil {
		return nil, types.NewInvalidInput("role", "role target is undefined")
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}
	if n == nil {
		n = skills.Default()
	}

	targets := skills.BuildRoleTargets(n, n.NormalizeAll(role.Skills), role.Importance)

	report, err := Analyze(resume.Skills, skills.Tokens(targets), skills.Importance(targets))
	if err != nil {
		return nil, err
	}
	report.CandidateID = resume.CandidateID
	report.Target = role.Tag
	report.CandidateTier = resume.InferredTier
	return report, nil
}

func byImportance(importance map[types.SkillToken]float64) func(a, b types.SkillToken) int {
	weight := func(t types.SkillToken) float64 {
		if w, ok := importance[t]; ok {
			return w
		}
		return DefaultImportance
	}
	return func(a, b types.SkillToken) int {
		if c := cmp.Compare(weight(b), weight(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	}
}
