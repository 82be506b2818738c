package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/careerpilot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lookupStore answers single-job lookups from a map and fails full loads.
type lookupStore struct {
	jobs  map[string]types.JobPosting
	calls int
}

func (s *lookupStore) Jobs(context.Context) ([]types.JobPosting, error) {
	return nil, errors.New("full job load not expected")
}

func (s *lookupStore) Courses(context.Context) ([]types.CourseRecord, error) { return nil, nil }
func (s *lookupStore) Roles(context.Context) ([]types.RoleTarget, error)     { return nil, nil }
func (s *lookupStore) Close() error                                          { return nil }

func (s *lookupStore) JobByID(_ context.Context, id string) (*types.JobPosting, error) {
	s.calls++
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &job, nil
}

func TestFindJob_UsesLookup(t *testing.T) {
	store := &lookupStore{jobs: map[string]types.JobPosting{
		"job-1": {
			ID:              "job-1",
			Title:           "Data Engineer",
			RequiredSkills:  []string{"SQL"},
			PreferredSkills: []string{},
			Seniority:       types.TierMid,
		},
	}}

	job, err := FindJob(context.Background(), store, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", job.Title)
	assert.Equal(t, 1, store.calls)

	_, err = FindJob(context.Background(), store, "job-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindJob_ValidatesLookupResult(t *testing.T) {
	store := &lookupStore{jobs: map[string]types.JobPosting{
		"job-1": {
			ID:              "job-1",
			RequiredSkills:  []string{"SQL"},
			PreferredSkills: []string{},
			Seniority:       types.TierMid,
		},
	}}

	_, err := FindJob(context.Background(), store, "job-1")
	require.Error(t, err)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, KindJob, recErr.Kind)
	assert.Equal(t, "job-1", recErr.ID)
	assert.True(t, types.IsInvalidInput(err))
}
