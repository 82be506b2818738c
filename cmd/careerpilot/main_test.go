package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/careerpilot/internal/catalog"
	"github.com/jonathan/careerpilot/internal/pipeline"
	"github.com/jonathan/careerpilot/internal/types"
)

const (
	catalogDir     = "../../testdata/catalog"
	analystProfile = "../../testdata/profiles/analyst.json"
)

// TestMain runs before all tests and loads .env if available
func TestMain(m *testing.M) {
	_ = godotenv.Load()
	os.Exit(m.Run())
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestATSCommand_Stdout(t *testing.T) {
	out, err := execute(t, "ats", "--profile", analystProfile)
	require.NoError(t, err)

	var eval pipeline.Evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &eval))
	assert.GreaterOrEqual(t, eval.Score.Total, 0.0)
	assert.LessOrEqual(t, eval.Score.Total, 100.0)
	assert.InDelta(t, eval.Score.Total, eval.Score.Sum(), types.BreakdownTolerance)
	assert.NotEmpty(t, eval.Status.Label)
}

func TestATSCommand_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "nested", "ats.json")
	xlsxPath := filepath.Join(dir, "ats")

	_, err := execute(t, "ats", "-p", analystProfile, "-o", outPath, "--xlsx", xlsxPath)
	require.NoError(t, err)

	assert.FileExists(t, outPath)
	assert.FileExists(t, xlsxPath+".xlsx")
}

func TestATSCommand_MissingProfileFlag(t *testing.T) {
	_, err := execute(t, "ats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestATSCommand_InvalidProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"work": [{"role": "x"}]}`), 0644))

	_, err := execute(t, "ats", "--profile", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid resume profile")
}

func TestATSCommand_AssignsCandidateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "Sam", "skills": ["Go", "SQL", "Docker"]}`), 0644))

	out, err := execute(t, "match-jobs", "--profile", path, "--catalog-dir", catalogDir)
	require.NoError(t, err)

	var report pipeline.MatchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	_, err = uuid.Parse(report.CandidateID)
	assert.NoError(t, err)
}

func TestMatchJobsCommand_Catalog(t *testing.T) {
	out, err := execute(t, "match-jobs", "--profile", analystProfile, "--catalog-dir", catalogDir)
	require.NoError(t, err)

	var report pipeline.MatchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "cand-analyst", report.CandidateID)
	require.Len(t, report.Matches, 3)
	assert.Equal(t, "job-analyst", report.Matches[0].JobID)
	for i, m := range report.Matches {
		assert.Equal(t, i+1, m.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, report.Matches[i-1].Score.Total, m.Score.Total)
		}
	}
	require.NotNil(t, report.Matches[0].Gap)
	assert.Equal(t, []types.SkillToken{"tableau"}, report.Matches[0].Gap.Missing)
}

func TestMatchJobsCommand_FilterAndTop(t *testing.T) {
	out, err := execute(t, "match-jobs", "-p", analystProfile, "--catalog-dir", catalogDir, "--location", "new york")
	require.NoError(t, err)

	var report pipeline.MatchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "job-pm-intern", report.Matches[0].JobID)

	out, err = execute(t, "match-jobs", "-p", analystProfile, "--catalog-dir", catalogDir, "--top", "2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Matches, 2)
}

func TestMatchJobsCommand_JobsFile(t *testing.T) {
	out, err := execute(t, "match-jobs", "-p", analystProfile, "--jobs", filepath.Join(catalogDir, catalog.JobsFile), "--seniority", "entry")
	require.NoError(t, err)

	var report pipeline.MatchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "job-pm-intern", report.Matches[0].JobID)
}

func TestMatchJobsCommand_InvalidSeniority(t *testing.T) {
	_, err := execute(t, "match-jobs", "-p", analystProfile, "--catalog-dir", catalogDir, "--seniority", "wizard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--seniority")
}

func TestMatchJobsCommand_NoCatalog(t *testing.T) {
	_, err := execute(t, "match-jobs", "-p", analystProfile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog source configured")
}

func TestRecommendCoursesCommand_Role(t *testing.T) {
	out, err := execute(t, "recommend-courses", "-p", analystProfile, "--catalog-dir", catalogDir, "--role", "DATA")
	require.NoError(t, err)

	var report pipeline.CourseReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotNil(t, report.Gap)
	assert.Equal(t, []types.SkillToken{"tableau"}, report.Gap.Missing)
	require.Len(t, report.Courses, 3)
	assert.Equal(t, "course-tableau", report.Courses[0].CourseID)
	assert.Equal(t, []types.SkillToken{"tableau"}, report.Courses[0].Covers)
}

func TestRecommendCoursesCommand_TargetFlags(t *testing.T) {
	_, err := execute(t, "recommend-courses", "-p", analystProfile, "--catalog-dir", catalogDir)
	assert.Error(t, err)

	_, err = execute(t, "recommend-courses", "-p", analystProfile, "--catalog-dir", catalogDir, "--job-id", "job-analyst", "--role", "data")
	assert.Error(t, err)
}

func TestGapCommand_Job(t *testing.T) {
	out, err := execute(t, "gap", "-p", analystProfile, "--catalog-dir", catalogDir, "--job-id", "job-frontend")
	require.NoError(t, err)

	var report types.GapReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "job-frontend", report.Target)
	assert.ElementsMatch(t, []types.SkillToken{"react", "typescript", "css", "next.js", "tailwind css"}, report.Missing)
	assert.Empty(t, report.Matched)
}

func TestGapCommand_UnknownJob(t *testing.T) {
	_, err := execute(t, "gap", "-p", analystProfile, "--catalog-dir", catalogDir, "--job-id", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestUpliftCommand(t *testing.T) {
	out, err := execute(t, "uplift", "-p", analystProfile, "--catalog-dir", catalogDir,
		"--job-id", "job-analyst", "--course-id", "course-tableau")
	require.NoError(t, err)

	var uplift pipeline.Uplift
	require.NoError(t, json.Unmarshal([]byte(out), &uplift))
	assert.Greater(t, uplift.Delta, 0.0)
	assert.InDelta(t, uplift.After.Total-uplift.Before.Total, uplift.Delta, 1e-9)
}

func TestUpliftCommand_UnknownCourse(t *testing.T) {
	_, err := execute(t, "uplift", "-p", analystProfile, "--catalog-dir", catalogDir,
		"--job-id", "job-analyst", "--course-id", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestImportCatalogCommand_SQLiteRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	out, err := execute(t, "import-catalog", "--from", catalogDir, "--sqlite", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 jobs, 3 courses and 2 roles")

	out, err = execute(t, "match-jobs", "-p", analystProfile, "--sqlite", dbPath)
	require.NoError(t, err)

	var report pipeline.MatchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Matches, 3)
	assert.Equal(t, "job-analyst", report.Matches[0].JobID)
}

func TestImportCatalogCommand_NoDestination(t *testing.T) {
	_, err := execute(t, "import-catalog", "--from", catalogDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a destination")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "--schema", "resume_profile", "--json", analystProfile)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")

	out, err = execute(t, "validate", "--schema", "job_posting", "--json", filepath.Join(catalogDir, catalog.JobsFile), "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")

	_, err = execute(t, "validate", "--schema", "job_posting", "--json", analystProfile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, err = execute(t, "validate", "--schema", "resume", "--json", analystProfile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestConfigFile_CatalogDir(t *testing.T) {
	abs, err := filepath.Abs(catalogDir)
	require.NoError(t, err)
	cfgPath := filepath.Join(t.TempDir(), "careerpilot.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("catalog_dir: "+abs+"\nconcurrency: 2\n"), 0644))

	out, err := execute(t, "--config", cfgPath, "gap", "-p", analystProfile, "--role", "data")
	require.NoError(t, err)

	var report types.GapReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []types.SkillToken{"tableau"}, report.Missing)
}
