package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathan/careerpilot/internal/logger"
	"github.com/jonathan/careerpilot/internal/schemas"
	"github.com/jonathan/careerpilot/internal/types"
)

// Catalog file names inside a FileStore directory
const (
	JobsFile    = "jobs.json"
	CoursesFile = "courses.json"
	RolesFile   = "roles.json"
)

// FileStore reads the catalog from JSON array files in a directory.
// A missing file is an empty catalog section.
type FileStore struct {
	dir string
	log *zap.Logger
}

// NewFileStore creates a store over dir.
func NewFileStore(dir string, log *zap.Logger) *FileStore {
	return &FileStore{dir: dir, log: logger.OrNop(log)}
}

// Jobs reads jobs.json.
func (s *FileStore) Jobs(_ context.Context) ([]types.JobPosting, error) {
	var jobs []types.JobPosting
	if err := s.read(JobsFile, schemas.JobPosting, &jobs); err != nil {
		return nil, err
	}
	if err := validateJobs(jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Courses reads courses.json.
func (s *FileStore) Courses(_ context.Context) ([]types.CourseRecord, error) {
	var courses []types.CourseRecord
	if err := s.read(CoursesFile, schemas.CourseRecord, &courses); err != nil {
		return nil, err
	}
	if err := validateCourses(courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Roles reads roles.json.
func (s *FileStore) Roles(_ context.Context) ([]types.RoleTarget, error) {
	var roles []types.RoleTarget
	if err := s.read(RolesFile, schemas.RoleTarget, &roles); err != nil {
		return nil, err
	}
	if err := validateRoles(roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read(name string, schema schemas.Name, out any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("catalog file missing, treating as empty", zap.String("path", path))
			return nil
		}
		return &LoadError{Source: path, Message: "failed to read file", Cause: err}
	}

	if err := schemas.ValidateList(schema, data); err != nil {
		return &LoadError{Source: path, Message: "schema validation failed", Cause: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &LoadError{Source: path, Message: "failed to decode", Cause: err}
	}

	s.log.Debug("loaded catalog file", zap.String("path", path))
	return nil
}
