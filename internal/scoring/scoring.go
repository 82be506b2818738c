// Package scoring combines feature vectors into ATS, job match and course relevance scores.
//
// Every function is pure. Each returns a ScoreResult whose breakdown sums to the total.
package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/careerpilot/internal/features"
	"github.com/jonathan/careerpilot/internal/types"
)

// ATS component weights
const (
	atsStructureWeight  = 40.0
	atsKeywordWeight    = 25.0
	atsQuantifiedWeight = 20.0
	atsRecencyWeight    = 15.0

	// atsKeywordCap is the number of distinct skills that earns the full keyword component.
	atsKeywordCap = 8.0
)

// Job match component weights
const (
	matchRequiredWeight   = 60.0
	matchPreferredWeight  = 20.0
	matchExperienceWeight = 20.0
)

// Course relevance component weights
const (
	courseRelevanceWeight = 80.0
	courseSeniorityWeight = 20.0

	seniorityMismatch = 0.5
)

// Breakdown component names
const (
	ComponentStructure         = "structure-completeness"
	ComponentKeywords          = "keyword-coverage"
	ComponentQuantified        = "quantified-impact"
	ComponentRecency           = "recency"
	ComponentRequiredCoverage  = "required-coverage"
	ComponentPreferredCoverage = "preferred-coverage"
	ComponentExperienceFit     = "experience-fit"
	ComponentSkillRelevance    = "skill-relevance"
	ComponentSeniority         = "seniority-alignment"

	// ComponentRounding absorbs the difference introduced by clipping and rounding,
	// so the breakdown always sums to the total.
	ComponentRounding = "rounding"
)

const (
	minScore = 0.0
	maxScore = 100.0

	// Totals are quantized so equal scores compare equal. ATS totals are whole
	// points; match and relevance totals keep two decimals.
	atsScale     = 1.0
	percentScale = 100.0

	// noiseScale snaps float noise away before quantizing.
	noiseScale = 1e6
)

// component is one weighted term of a score.
type component struct {
	name  string
	value float64
}

// ATS scores a resume's structure and content for applicant-tracking systems.
// The total is clipped to [0,100] and rounded to an integer.
func ATS(f *features.ResumeFeatures) (types.ScoreResult, error) {
	if f == nil {
		return types.ScoreResult{}, types.NewInvalidInput("features", "resume features are undefined")
	}
	if !f.Skills.Defined() {
		return types.ScoreResult{}, types.NewInvalidInput("skills", "resume skill set is undefined")
	}
	if err := checkFinite([]component{
		{"section_completeness", f.SectionCompleteness},
		{"quantified_achievement_ratio", f.QuantifiedAchievementRatio},
		{"recency_weight", f.RecencyWeight},
	}); err != nil {
		return types.ScoreResult{}, err
	}

	keywordRichness := math.Min(float64(f.Skills.Len())/atsKeywordCap, 1)

	return newResult([]component{
		{ComponentStructure, clamp01(f.SectionCompleteness) * atsStructureWeight},
		{ComponentKeywords, keywordRichness * atsKeywordWeight},
		{ComponentQuantified, clamp01(f.QuantifiedAchievementRatio) * atsQuantifiedWeight},
		{ComponentRecency, clamp01(f.RecencyWeight) * atsRecencyWeight},
	}, atsScale), nil
}

// JobMatch scores how well a resume fits a job posting.
func JobMatch(resume *features.ResumeFeatures, job *features.TargetFeatures) (types.ScoreResult, error) {
	if resume == nil {
		return types.ScoreResult{}, types.NewInvalidInput("resume", "resume features are undefined")
	}
	if job == nil {
		return types.ScoreResult{}, types.NewInvalidInput("job", "job features are undefined")
	}
	if !resume.Skills.Defined() {
		return types.ScoreResult{}, types.NewInvalidInput("skills", "resume skill set is undefined")
	}
	if !job.Required.Defined() {
		return types.ScoreResult{}, types.NewInvalidInput("required", "job required skill set is undefined")
	}
	if !job.Preferred.Defined() {
		return types.ScoreResult{}, types.NewInvalidInput("preferred", "job preferred skill set is undefined")
	}
	if job.MinExperienceYears < 0 {
		return types.ScoreResult{}, types.NewInvalidInput("min_experience_years", "must not be negative")
	}
	if err := checkFinite([]component{{"years_experience", resume.YearsExperience}}); err != nil {
		return types.ScoreResult{}, err
	}
	if resume.YearsExperience < 0 {
		return types.ScoreResult{}, types.NewInvalidInput("years_experience", "must not be negative")
	}

	requiredCoverage := 1.0
	if job.Required.Len() > 0 {
		requiredCoverage = float64(resume.Skills.IntersectionSize(job.Required)) / float64(job.Required.Len())
	}
	preferredCoverage := float64(resume.Skills.IntersectionSize(job.Preferred)) / float64(max(job.Preferred.Len(), 1))

	minYears := float64(job.MinExperienceYears)
	deviation := math.Abs(resume.YearsExperience-minYears) / math.Max(minYears, 1)
	experienceFit := 1 - math.Min(deviation, 1)

	return newResult([]component{
		{ComponentRequiredCoverage, requiredCoverage * matchRequiredWeight},
		{ComponentPreferredCoverage, preferredCoverage * matchPreferredWeight},
		{ComponentExperienceFit, experienceFit * matchExperienceWeight},
	}, percentScale), nil
}

// CourseRelevance scores how much a course closes the gaps in a report.
// Seniority alignment is full when the course targets the candidate's tier, half otherwise.
func CourseRelevance(gap *types.GapReport, course *features.TargetFeatures) (types.ScoreResult, error) {
	if gap == nil {
		return types.ScoreResult{}, types.NewInvalidInput("gap", "gap report is undefined")
	}
	if gap.Missing == nil {
		return types.ScoreResult{}, types.NewInvalidInput("missing", "gap report missing skills are undefined")
	}
	if course == nil {
		return types.ScoreResult{}, types.NewInvalidInput("course", "course features are undefined")
	}
	if !course.Taught.Defined() {
		return types.ScoreResult{}, types.NewInvalidInput("taught", "course taught skill set is undefined")
	}

	missing := gap.MissingSet()
	relevance := float64(course.Taught.IntersectionSize(missing)) / float64(max(missing.Len(), 1))

	alignment := seniorityMismatch
	if course.Tier != types.TierUnknown && course.Tier == gap.CandidateTier {
		alignment = 1
	}

	return newResult([]component{
		{ComponentSkillRelevance, relevance * courseRelevanceWeight},
		{ComponentSeniority, alignment * courseSeniorityWeight},
	}, percentScale), nil
}

// newResult sums components, clips to [0,100] and quantizes to 1/scale.
// Any difference between the raw sum and the total is recorded under ComponentRounding.
func newResult(components []component, scale float64) types.ScoreResult {
	breakdown := make(map[string]float64, len(components)+1)
	raw := 0.0
	for _, c := range components {
		breakdown[c.name] = c.value
		raw += c.value
	}

	total := quantize(math.Max(minScore, math.Min(maxScore, raw)), scale)
	if adjustment := total - raw; adjustment != 0 {
		breakdown[ComponentRounding] = adjustment
	}

	return types.ScoreResult{Total: total, Breakdown: breakdown}
}

// quantize rounds v to the nearest 1/scale. Mathematically equal inputs that
// differ only by float noise land on the same value.
func quantize(v, scale float64) float64 {
	v = math.Round(v*noiseScale) / noiseScale
	return math.Round(v*scale) / scale
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// checkFinite rejects NaN and infinite inputs, naming the first one in order.
func checkFinite(values []component) error {
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return types.NewInvalidInput(v.name, fmt.Sprintf("must be a finite number, got %v", v.value))
		}
	}
	return nil
}
