package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/careerpilot/internal/schemas"
	"github.com/jonathan/careerpilot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../testdata/catalog"

func TestFileStore_LoadsFixtures(t *testing.T) {
	store := NewFileStore(fixtureDir, nil)
	defer store.Close()

	snap, err := Load(context.Background(), store)
	require.NoError(t, err)

	require.Len(t, snap.Jobs, 3)
	assert.Equal(t, "job-frontend", snap.Jobs[0].ID, "catalog order is file order")
	assert.Equal(t, types.TierMid, snap.Jobs[0].Seniority)
	assert.Equal(t, []string{}, snap.Jobs[2].PreferredSkills)

	require.Len(t, snap.Courses, 3)
	assert.Equal(t, types.TierMid, snap.Courses[0].TargetSeniority, "Intermediate maps to mid")
	assert.Equal(t, types.TierEntry, snap.Courses[1].TargetSeniority, "Beginner maps to entry")

	require.Len(t, snap.Roles, 2)
	assert.Equal(t, 3.0, snap.Roles[0].Importance["SQL"])
}

func TestFileStore_MissingFilesAreEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir(), nil)

	jobs, err := store.Jobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)

	roles, err := store.Roles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestFileStore_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, JobsFile),
		[]byte(`[{"id": "j1", "title": "Dev", "required_skills": ["go"], "seniority": "mid"}]`), 0644))

	_, err := NewFileStore(dir, nil).Jobs(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Source, JobsFile)

	var verr *schemas.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestFileStore_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CoursesFile), []byte(`not json`), 0644))

	_, err := NewFileStore(dir, nil).Courses(context.Background())
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "schema validation failed", loadErr.Message)
}

func TestFileStore_RecordValidation(t *testing.T) {
	dir := t.TempDir()
	// The second role has an empty tag.
	require.NoError(t, os.WriteFile(filepath.Join(dir, RolesFile), []byte(`[{"tag": "x", "skills": []}, {"tag": "", "skills": ["go"]}]`), 0644))

	_, err := NewFileStore(dir, nil).Roles(context.Background())
	require.Error(t, err)
}

func TestFindJobAndRole(t *testing.T) {
	store := NewFileStore(fixtureDir, nil)
	ctx := context.Background()

	job, err := FindJob(ctx, store, "job-analyst")
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", job.Title)

	_, err = FindJob(ctx, store, "job-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	role, err := FindRole(ctx, store, "FRONTEND")
	require.NoError(t, err)
	assert.Equal(t, "frontend", role.Tag)

	_, err = FindRole(ctx, store, "devops")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_SelectsSource(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Options{}, nil)
	assert.Error(t, err)

	store, err := Open(ctx, Options{Dir: fixtureDir}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	store, err = Open(ctx, Options{SQLitePath: filepath.Join(t.TempDir(), "catalog.db")}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	assert.NoError(t, store.Close())
}

func TestRecordError(t *testing.T) {
	cause := types.NewInvalidInput("title", "is required")
	err := &RecordError{Kind: KindJob, ID: "job-1", Cause: cause}

	assert.Contains(t, err.Error(), `invalid job "job-1"`)
	assert.True(t, types.IsInvalidInput(err))
}
