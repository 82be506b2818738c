package features

import (
	"testing"
	"time"

	"github.com/jonathan/careerpilot/internal/skills"
	"github.com/jonathan/careerpilot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedExtractor(t *testing.T) Extractor {
	t.Helper()
	n, err := skills.NewNormalizer(skills.DefaultSynonyms())
	require.NoError(t, err)
	return Extractor{
		Normalizer: n,
		Now:        func() time.Time { return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC) },
	}
}

func fullProfile() *types.ResumeProfile {
	return &types.ResumeProfile{
		CandidateID: "cand-1",
		Name:        "Jane Doe",
		Contact:     types.Contact{Email: "jane@example.com"},
		Work: []types.WorkEntry{
			{
				Role:         "Frontend Engineer",
				Organization: "Acme Corp",
				Start:        "2023-01",
				Achievements: []string{"Cut bundle size by 40%", "Led the design system migration"},
				Skills:       []string{"React", "TS"},
			},
			{
				Role:         "Junior Developer",
				Organization: "Orbit",
				Start:        "2021-01",
				End:          "2022-12",
				Achievements: []string{"Shipped 12 features", ""},
				Skills:       []string{"JS"},
			},
		},
		Education: []types.EducationEntry{{Degree: "BSc Computer Science", School: "State University", Year: "2020"}},
		Skills:    []string{"JavaScript", "React", "CSS", "Node"},
		Projects:  []types.ProjectEntry{{Title: "Portfolio", Skills: []string{"Tailwind"}}},
	}
}

func TestResume_FullProfile(t *testing.T) {
	f, err := fixedExtractor(t).Resume(fullProfile())
	require.NoError(t, err)

	assert.Equal(t, "cand-1", f.CandidateID)
	assert.Equal(t, types.NewSkillSet("javascript", "react", "css", "node.js", "typescript", "tailwind css"), f.Skills)
	assert.InDelta(t, 1.0, f.SectionCompleteness, 1e-9)
	assert.Empty(t, f.MissingSections)
	assert.Equal(t, 1.0, f.RecencyWeight, "current role is fully recent")
	assert.Equal(t, 3, f.AchievementCount, "blank achievements are skipped")
	assert.Equal(t, 2, f.QuantifiedCount)
	assert.InDelta(t, 2.0/3.0, f.QuantifiedAchievementRatio, 1e-9)
	// 2021-01..2022-12 is 24 months, 2023-01..2025-06 is 30 months
	assert.InDelta(t, 54.0/12.0, f.YearsExperience, 1e-9)
	assert.Equal(t, types.TierMid, f.InferredTier)
}

func TestResume_ScenarioB_EducationOnly(t *testing.T) {
	profile := &types.ResumeProfile{
		CandidateID: "cand-b",
		Education:   []types.EducationEntry{{Degree: "BA Economics", School: "City College"}},
	}

	f, err := fixedExtractor(t).Resume(profile)
	require.NoError(t, err)

	assert.InDelta(t, 1.0/6.0, f.SectionCompleteness, 1e-9)
	assert.ElementsMatch(t,
		[]string{SectionName, SectionContact, SectionWork, SectionSkills, SectionQuantified},
		f.MissingSections)
	assert.NotNil(t, f.Skills, "skills are defined even when empty")
	assert.Equal(t, 0, f.Skills.Len())
	assert.Equal(t, 0.0, f.YearsExperience)
	assert.Equal(t, 0.0, f.RecencyWeight)
	assert.Equal(t, 0.0, f.QuantifiedAchievementRatio)
	assert.Equal(t, types.TierEntry, f.InferredTier)
}

func TestResume_ScenarioC_NothingToScore(t *testing.T) {
	profile := &types.ResumeProfile{CandidateID: "cand-c", Name: "Empty Person"}

	_, err := fixedExtractor(t).Resume(profile)
	require.Error(t, err)
	assert.True(t, types.IsIncompleteProfile(err))
	assert.Contains(t, err.Error(), "cand-c")
}

func TestResume_BlankRowsDoNotCount(t *testing.T) {
	profile := &types.ResumeProfile{
		Education: []types.EducationEntry{{}},
		Skills:    []string{"", "   "},
	}

	_, err := fixedExtractor(t).Resume(profile)
	require.Error(t, err)
	assert.True(t, types.IsIncompleteProfile(err))
}

func TestResume_SkillsOnlyIsScored(t *testing.T) {
	profile := &types.ResumeProfile{Skills: []string{"Python"}}

	f, err := fixedExtractor(t).Resume(profile)
	require.NoError(t, err)
	assert.Equal(t, types.NewSkillSet("python"), f.Skills)
	assert.Equal(t, 0.0, f.SectionCompleteness, "a single skill does not meet the skills criterion")
}

func TestResume_InvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		profile *types.ResumeProfile
	}{
		{"nil profile", nil},
		{"missing start", &types.ResumeProfile{Work: []types.WorkEntry{{Role: "Dev"}}}},
		{"bad start layout", &types.ResumeProfile{Work: []types.WorkEntry{{Start: "Jan 2020"}}}},
		{"start after end", &types.ResumeProfile{Work: []types.WorkEntry{{Start: "2022-05", End: "2021-01"}}}},
		{"bad email", &types.ResumeProfile{Contact: types.Contact{Email: "not-an-email"}, Skills: []string{"go"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixedExtractor(t).Resume(tt.profile)
			require.Error(t, err)
			assert.True(t, types.IsInvalidInput(err), "got %v", err)
		})
	}
}

func TestYearsExperience_OverlapsCountOnce(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	work := []types.WorkEntry{
		{Start: "2020-01", End: "2020-12"},
		{Start: "2020-07", End: "2021-06"}, // overlaps the first by six months
		{Start: "2023-01", End: "2023-06"},
	}

	years, err := yearsExperience(work, now)
	require.NoError(t, err)
	assert.InDelta(t, 24.0/12.0, years, 1e-9)
}

func TestYearsExperience_NestedAndFuture(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	work := []types.WorkEntry{
		{Start: "2019-01", End: "2022-12"},
		{Start: "2020-01", End: "2020-06"}, // fully inside the first
		{Start: "2026-01"},                 // starts in the future
		{Start: "2025-01", End: "2027-12"}, // end clipped to now
	}

	years, err := yearsExperience(work, now)
	require.NoError(t, err)
	assert.InDelta(t, (48.0+6.0)/12.0, years, 1e-9)
}

func TestMergedMonths_Empty(t *testing.T) {
	assert.Equal(t, 0, mergedMonths(nil))
}

func TestRecencyWeight(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		work     []types.WorkEntry
		expected float64
	}{
		{"no work", nil, 0},
		{"current", []types.WorkEntry{{Start: "2010-01", End: "2012-01"}, {Start: "2024-01"}}, 1},
		{"within two years", []types.WorkEntry{{Start: "2020-01", End: "2023-01"}}, 1},
		{"six years ago", []types.WorkEntry{{Start: "2015-01", End: "2019-01"}}, 0.5},
		{"ten years ago", []types.WorkEntry{{Start: "2010-01", End: "2015-01"}}, 0},
		{"older", []types.WorkEntry{{Start: "2000-01", End: "2005-01"}}, 0},
		{"latest wins", []types.WorkEntry{{Start: "2000-01", End: "2005-01"}, {Start: "2015-01", End: "2019-01"}}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := recencyWeight(tt.work, now)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestIsQuantified(t *testing.T) {
	assert.True(t, IsQuantified("Grew revenue 3x"))
	assert.True(t, IsQuantified("Improved CTR by a few %"))
	assert.False(t, IsQuantified("Led the migration"))
}

func TestJob(t *testing.T) {
	job := &types.JobPosting{
		ID:                 "job-1",
		Title:              "Data Analyst",
		RequiredSkills:     []string{"SQL", "Python", "Py"},
		PreferredSkills:    []string{},
		MinExperienceYears: 2,
		Seniority:          types.TierMid,
	}

	f, err := fixedExtractor(t).Job(job)
	require.NoError(t, err)
	assert.Equal(t, KindJob, f.Kind)
	assert.Equal(t, types.NewSkillSet("sql", "python"), f.Required)
	assert.NotNil(t, f.Preferred)
	assert.Equal(t, 0, f.Preferred.Len())
	assert.Equal(t, 2, f.MinExperienceYears)
	assert.Equal(t, types.TierMid, f.Tier)
}

func TestJob_Invalid(t *testing.T) {
	valid := types.JobPosting{
		ID: "job-1", Title: "Engineer",
		RequiredSkills: []string{"go"}, PreferredSkills: []string{},
		Seniority: types.TierSenior,
	}

	undefinedRequired := valid
	undefinedRequired.RequiredSkills = nil
	undefinedPreferred := valid
	undefinedPreferred.PreferredSkills = nil
	negativeYears := valid
	negativeYears.MinExperienceYears = -1
	noTier := valid
	noTier.Seniority = types.TierUnknown

	for name, job := range map[string]*types.JobPosting{
		"nil":                 nil,
		"undefined required":  &undefinedRequired,
		"undefined preferred": &undefinedPreferred,
		"negative years":      &negativeYears,
		"unknown tier":        &noTier,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := fixedExtractor(t).Job(job)
			require.Error(t, err)
			assert.True(t, types.IsInvalidInput(err), "got %v", err)
		})
	}
}

func TestCourse(t *testing.T) {
	course := &types.CourseRecord{
		ID:              "course-2",
		Title:           "React Basics",
		SkillsTaught:    []string{"React", "JavaScript", "Frontend Development"},
		TargetSeniority: types.TierEntry,
		DurationHours:   8,
	}

	f, err := fixedExtractor(t).Course(course)
	require.NoError(t, err)
	assert.Equal(t, KindCourse, f.Kind)
	assert.Equal(t, types.NewSkillSet("react", "javascript", "frontend development"), f.Taught)
	assert.Equal(t, 8.0, f.DurationHours)

	course.DurationHours = 0
	_, err = fixedExtractor(t).Course(course)
	require.Error(t, err)
	assert.True(t, types.IsInvalidInput(err))
}
