// Package catalog loads the read-only job, course and role catalogs the engine scores against.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/careerpilot/internal/types"
)

// Record kinds
const (
	KindJob    = "job"
	KindCourse = "course"
	KindRole   = "role"
)

// Store is a read-only catalog source. Records come back in catalog order.
type Store interface {
	Jobs(ctx context.Context) ([]types.JobPosting, error)
	Courses(ctx context.Context) ([]types.CourseRecord, error)
	Roles(ctx context.Context) ([]types.RoleTarget, error)
	Close() error
}

// Options selects the catalog source. At most one field may be set.
type Options struct {
	DatabaseURL string
	SQLitePath  string
	Dir         string
}

// Open opens the store selected by opts.
func Open(ctx context.Context, opts Options, log *zap.Logger) (Store, error) {
	switch {
	case opts.DatabaseURL != "":
		return ConnectPostgres(ctx, opts.DatabaseURL, log)
	case opts.SQLitePath != "":
		return OpenSQLite(ctx, opts.SQLitePath, log)
	case opts.Dir != "":
		return NewFileStore(opts.Dir, log), nil
	default:
		return nil, fmt.Errorf("no catalog source configured: set database_url, sqlite_path or catalog_dir")
	}
}

// Snapshot is an in-memory copy of a whole catalog.
type Snapshot struct {
	Jobs    []types.JobPosting   `json:"jobs"`
	Courses []types.CourseRecord `json:"courses"`
	Roles   []types.RoleTarget   `json:"roles"`
}

// Load reads every record from the store.
func Load(ctx context.Context, s Store) (*Snapshot, error) {
	jobs, err := s.Jobs(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.Courses(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := s.Roles(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Jobs: jobs, Courses: courses, Roles: roles}, nil
}

// JobLookup is implemented by stores that can fetch one job without loading the whole catalog.
type JobLookup interface {
	JobByID(ctx context.Context, id string) (*types.JobPosting, error)
}

// FindJob returns the job with the given id. Stores implementing JobLookup are
// queried directly; the record they return is validated like a full load.
func FindJob(ctx context.Context, s Store, id string) (*types.JobPosting, error) {
	if lookup, ok := s.(JobLookup); ok {
		job, err := lookup.JobByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := validateJobs([]types.JobPosting{*job}); err != nil {
			return nil, err
		}
		return job, nil
	}

	jobs, err := s.Jobs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i], nil
		}
	}
	return nil, fmt.Errorf("job %q: %w", id, ErrNotFound)
}

// FindRole returns the role with the given tag, compared case-insensitively.
func FindRole(ctx context.Context, s Store, tag string) (*types.RoleTarget, error) {
	roles, err := s.Roles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		if strings.EqualFold(roles[i].Tag, tag) {
			return &roles[i], nil
		}
	}
	return nil, fmt.Errorf("role %q: %w", tag, ErrNotFound)
}

// validateJobs checks every posting, reporting the first invalid one.
func validateJobs(jobs []types.JobPosting) error {
	for i := range jobs {
		if err := jobs[i].Validate(); err != nil {
			return &RecordError{Kind: KindJob, ID: jobs[i].ID, Cause: err}
		}
	}
	return nil
}

func validateCourses(courses []types.CourseRecord) error {
	for i := range courses {
		if err := courses[i].Validate(); err != nil {
			return &RecordError{Kind: KindCourse, ID: courses[i].ID, Cause: err}
		}
	}
	return nil
}

func validateRoles(roles []types.RoleTarget) error {
	for i := range roles {
		if err := roles[i].Validate(); err != nil {
			return &RecordError{Kind: KindRole, ID: roles[i].Tag, Cause: err}
		}
	}
	return nil
}
