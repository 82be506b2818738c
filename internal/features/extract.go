package features

import (
	"strings"
	"time"
	"unicode"

	"github.com/jonathan/careerpilot/internal/skills"
	"github.com/jonathan/careerpilot/internal/types"
)

// Extractor builds feature vectors. The zero value uses the process-wide
// normalizer and the wall clock.
type Extractor struct {
	Normalizer *skills.Normalizer
	Now        func() time.Time
}

var defaultExtractor Extractor

// ExtractResumeFeatures extracts resume features with the default extractor.
func ExtractResumeFeatures(profile *types.ResumeProfile) (*ResumeFeatures, error) {
	return defaultExtractor.Resume(profile)
}

// ExtractJobFeatures extracts job features with the default extractor.
func ExtractJobFeatures(job *types.JobPosting) (*TargetFeatures, error) {
	return defaultExtractor.Job(job)
}

// ExtractCourseFeatures extracts course features with the default extractor.
func ExtractCourseFeatures(course *types.CourseRecord) (*TargetFeatures, error) {
	return defaultExtractor.Course(course)
}

func (e Extractor) normalizer() *skills.Normalizer {
	if e.Normalizer != nil {
		return e.Normalizer
	}
	return skills.Default()
}

func (e Extractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Resume extracts the feature vector of a resume.
// Missing sections contribute zero; only a profile with no work, no education
// and no skills is rejected.
func (e Extractor) Resume(profile *types.ResumeProfile) (*ResumeFeatures, error) {
	if profile == nil {
		return nil, types.NewInvalidInput("profile", "resume profile is undefined")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	n := e.normalizer()
	now := e.now()

	sectionSkills := n.NormalizeAll(profile.Skills)
	all := sectionSkills.Union(nil)
	for i := range profile.Work {
		all = all.Union(n.NormalizeAll(profile.Work[i].Skills))
	}
	for i := range profile.Projects {
		all = all.Union(n.NormalizeAll(profile.Projects[i].Skills))
	}

	education := countEducation(profile.Education)
	if len(profile.Work) == 0 && education == 0 && all.Len() == 0 {
		return nil, &types.IncompleteProfileError{CandidateID: profile.CandidateID}
	}

	years, err := yearsExperience(profile.Work, now)
	if err != nil {
		return nil, err
	}
	recency, err := recencyWeight(profile.Work, now)
	if err != nil {
		return nil, err
	}

	achievements, quantified := countAchievements(profile.Work)
	ratio := 0.0
	if achievements > 0 {
		ratio = float64(quantified) / float64(achievements)
	}

	criteria := []struct {
		name string
		met  bool
	}{
		{SectionName, strings.TrimSpace(profile.Name) != ""},
		{SectionContact, strings.TrimSpace(profile.Contact.Email) != "" || strings.TrimSpace(profile.Contact.Phone) != ""},
		{SectionWork, len(profile.Work) > 0},
		{SectionEducation, education > 0},
		{SectionSkills, sectionSkills.Len() >= MinSkillsForSection},
		{SectionQuantified, quantified > 0},
	}
	met := 0
	var missing []string
	for _, c := range criteria {
		if c.met {
			met++
		} else {
			missing = append(missing, c.name)
		}
	}

	return &ResumeFeatures{
		CandidateID:                profile.CandidateID,
		Skills:                     all,
		YearsExperience:            years,
		SectionCompleteness:        float64(met) / completenessCriteria,
		RecencyWeight:              recency,
		QuantifiedAchievementRatio: ratio,
		AchievementCount:           achievements,
		QuantifiedCount:            quantified,
		InferredTier:               types.TierForYears(years),
		MissingSections:            missing,
	}, nil
}

// Job extracts the feature vector of a job posting.
func (e Extractor) Job(job *types.JobPosting) (*TargetFeatures, error) {
	if job == nil {
		return nil, types.NewInvalidInput("job", "job posting is undefined")
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	n := e.normalizer()
	return &TargetFeatures{
		Kind:               KindJob,
		ID:                 job.ID,
		Title:              job.Title,
		Required:           n.NormalizeAll(job.RequiredSkills),
		Preferred:          n.NormalizeAll(job.PreferredSkills),
		MinExperienceYears: job.MinExperienceYears,
		Tier:               job.Seniority,
	}, nil
}

// Course extracts the feature vector of a course.
func (e Extractor) Course(course *types.CourseRecord) (*TargetFeatures, error) {
	if course == nil {
		return nil, types.NewInvalidInput("course", "course record is undefined")
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}

	return &TargetFeatures{
		Kind:          KindCourse,
		ID:            course.ID,
		Title:         course.Title,
		Taught:        e.normalizer().NormalizeAll(course.SkillsTaught),
		Tier:          course.TargetSeniority,
		DurationHours: course.DurationHours,
	}, nil
}

// IsQuantified reports whether an achievement carries a number or a percent sign.
func IsQuantified(achievement string) bool {
	return strings.ContainsFunc(achievement, unicode.IsDigit) || strings.Contains(achievement, "%")
}

// countAchievements counts non-blank achievements and how many are quantified.
func countAchievements(work []types.WorkEntry) (total, quantified int) {
	for i := range work {
		for _, a := range work[i].Achievements {
			if strings.TrimSpace(a) == "" {
				continue
			}
			total++
			if IsQuantified(a) {
				quantified++
			}
		}
	}
	return total, quantified
}

// countEducation ignores blank form rows.
func countEducation(entries []types.EducationEntry) int {
	n := 0
	for _, e := range entries {
		if strings.TrimSpace(e.Degree) != "" || strings.TrimSpace(e.School) != "" {
			n++
		}
	}
	return n
}
