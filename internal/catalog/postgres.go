package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jonathan/careerpilot/internal/logger"
	"github.com/jonathan/careerpilot/internal/types"
)

// PostgresSchema creates the catalog tables. Rows are returned in insertion order.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS catalog_jobs (
	id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	external_id          TEXT UNIQUE,
	title                TEXT NOT NULL,
	company              TEXT NOT NULL DEFAULT '',
	location             TEXT NOT NULL DEFAULT '',
	required_skills      TEXT[] NOT NULL DEFAULT '{}',
	preferred_skills     TEXT[] NOT NULL DEFAULT '{}',
	min_experience_years INTEGER NOT NULL DEFAULT 0,
	seniority            TEXT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS catalog_courses (
	id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	external_id      TEXT UNIQUE,
	title            TEXT NOT NULL,
	platform         TEXT NOT NULL DEFAULT '',
	skills_taught    TEXT[] NOT NULL DEFAULT '{}',
	target_seniority TEXT NOT NULL,
	duration_hours   DOUBLE PRECISION NOT NULL,
	target_role      TEXT NOT NULL DEFAULT '',
	rating           DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS catalog_roles (
	tag        TEXT PRIMARY KEY,
	skills     TEXT[] NOT NULL DEFAULT '{}',
	importance JSONB,
	seniority  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresStore reads the catalog from PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// ConnectPostgres establishes a connection pool to the database
func ConnectPostgres(ctx context.Context, databaseURL string, log *zap.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool, log: logger.OrNop(log)}, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// EnsureSchema creates the catalog tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

// recordID prefers the external id and falls back to the row UUID.
func recordID(id uuid.UUID, externalID *string) string {
	if externalID != nil && *externalID != "" {
		return *externalID
	}
	return id.String()
}

// Jobs returns every job posting in insertion order.
func (s *PostgresStore) Jobs(ctx context.Context) ([]types.JobPosting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, external_id, title, company, location, required_skills, preferred_skills,
		        min_experience_years, seniority
		 FROM catalog_jobs ORDER BY created_at, id`)
	if err != nil {
		return nil, &LoadError{Source: "postgres", Message: "failed to query jobs", Cause: err}
	}
	defer rows.Close()

	jobs := make([]types.JobPosting, 0)
	for rows.Next() {
		var (
			j          types.JobPosting
			id         uuid.UUID
			externalID *string
			seniority  string
		)
		if err := rows.Scan(&id, &externalID, &j.Title, &j.Company, &j.Location,
			&j.RequiredSkills, &j.PreferredSkills, &j.MinExperienceYears, &seniority); err != nil {
			return nil, &LoadError{Source: "postgres", Message: "failed to scan job", Cause: err}
		}
		j.ID = recordID(id, externalID)
		if j.Seniority, err = types.ParseSeniorityTier(seniority); err != nil {
			return nil, &RecordError{Kind: KindJob, ID: j.ID, Cause: err}
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: "postgres", Message: "error iterating jobs", Cause: err}
	}

	if err := validateJobs(jobs); err != nil {
		return nil, err
	}
	s.log.Debug("loaded jobs", zap.Int("count", len(jobs)))
	return jobs, nil
}

// Courses returns every course in insertion order.
func (s *PostgresStore) Courses(ctx context.Context) ([]types.CourseRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, external_id, title, platform, skills_taught, target_seniority,
		        duration_hours, target_role, rating
		 FROM catalog_courses ORDER BY created_at, id`)
	if err != nil {
		return nil, &LoadError{Source: "postgres", Message: "failed to query courses", Cause: err}
	}
	defer rows.Close()

	courses := make([]types.CourseRecord, 0)
	for rows.Next() {
		var (
			c          types.CourseRecord
			id         uuid.UUID
			externalID *string
			seniority  string
		)
		if err := rows.Scan(&id, &externalID, &c.Title, &c.Platform, &c.SkillsTaught, &seniority,
			&c.DurationHours, &c.TargetRole, &c.Rating); err != nil {
			return nil, &LoadError{Source: "postgres", Message: "failed to scan course", Cause: err}
		}
		c.ID = recordID(id, externalID)
		if c.TargetSeniority, err = types.ParseSeniorityTier(seniority); err != nil {
			return nil, &RecordError{Kind: KindCourse, ID: c.ID, Cause: err}
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: "postgres", Message: "error iterating courses", Cause: err}
	}

	if err := validateCourses(courses); err != nil {
		return nil, err
	}
	s.log.Debug("loaded courses", zap.Int("count", len(courses)))
	return courses, nil
}

// Roles returns every role target in insertion order.
func (s *PostgresStore) Roles(ctx context.Context) ([]types.RoleTarget, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT tag, skills, importance, seniority FROM catalog_roles ORDER BY created_at, tag`)
	if err != nil {
		return nil, &LoadError{Source: "postgres", Message: "failed to query roles", Cause: err}
	}
	defer rows.Close()

	roles := make([]types.RoleTarget, 0)
	for rows.Next() {
		var (
			r              types.RoleTarget
			importanceJSON []byte
			seniority      string
		)
		if err := rows.Scan(&r.Tag, &r.Skills, &importanceJSON, &seniority); err != nil {
			return nil, &LoadError{Source: "postgres", Message: "failed to scan role", Cause: err}
		}
		if importanceJSON != nil {
			if err := json.Unmarshal(importanceJSON, &r.Importance); err != nil {
				return nil, &RecordError{Kind: KindRole, ID: r.Tag, Cause: err}
			}
		}
		if r.Seniority, err = types.ParseSeniorityTier(seniority); err != nil {
			return nil, &RecordError{Kind: KindRole, ID: r.Tag, Cause: err}
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: "postgres", Message: "error iterating roles", Cause: err}
	}

	if err := validateRoles(roles); err != nil {
		return nil, err
	}
	s.log.Debug("loaded roles", zap.Int("count", len(roles)))
	return roles, nil
}

// JobByID returns a single posting by external id, or by row UUID for rows
// without one. Missing rows yield ErrNotFound.
func (s *PostgresStore) JobByID(ctx context.Context, id string) (*types.JobPosting, error) {
	var (
		j          types.JobPosting
		rowID      uuid.UUID
		externalID *string
		seniority  string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, external_id, title, company, location, required_skills, preferred_skills,
		        min_experience_years, seniority
		 FROM catalog_jobs
		 WHERE external_id = $1 OR (external_id IS NULL AND id::text = $1)`,
		id,
	).Scan(&rowID, &externalID, &j.Title, &j.Company, &j.Location, &j.RequiredSkills, &j.PreferredSkills,
		&j.MinExperienceYears, &seniority)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job %q: %w", id, ErrNotFound)
		}
		return nil, &LoadError{Source: "postgres", Message: "failed to get job", Cause: err}
	}
	j.ID = recordID(rowID, externalID)
	if j.Seniority, err = types.ParseSeniorityTier(seniority); err != nil {
		return nil, &RecordError{Kind: KindJob, ID: j.ID, Cause: err}
	}
	return &j, nil
}

// Import inserts a snapshot, replacing records with the same external id or tag.
func (s *PostgresStore) Import(ctx context.Context, snap *Snapshot) error {
	if err := validateJobs(snap.Jobs); err != nil {
		return err
	}
	if err := validateCourses(snap.Courses); err != nil {
		return err
	}
	if err := validateRoles(snap.Roles); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, j := range snap.Jobs {
		_, err := tx.Exec(ctx,
			`INSERT INTO catalog_jobs (external_id, title, company, location, required_skills,
			        preferred_skills, min_experience_years, seniority)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (external_id) DO UPDATE SET title = $2, company = $3, location = $4,
			        required_skills = $5, preferred_skills = $6, min_experience_years = $7, seniority = $8`,
			j.ID, j.Title, j.Company, j.Location, nonNil(j.RequiredSkills), nonNil(j.PreferredSkills),
			j.MinExperienceYears, j.Seniority.String())
		if err != nil {
			return fmt.Errorf("failed to import job %q: %w", j.ID, err)
		}
	}

	for _, c := range snap.Courses {
		_, err := tx.Exec(ctx,
			`INSERT INTO catalog_courses (external_id, title, platform, skills_taught, target_seniority,
			        duration_hours, target_role, rating)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (external_id) DO UPDATE SET title = $2, platform = $3, skills_taught = $4,
			        target_seniority = $5, duration_hours = $6, target_role = $7, rating = $8`,
			c.ID, c.Title, c.Platform, nonNil(c.SkillsTaught), c.TargetSeniority.String(),
			c.DurationHours, c.TargetRole, c.Rating)
		if err != nil {
			return fmt.Errorf("failed to import course %q: %w", c.ID, err)
		}
	}

	for _, r := range snap.Roles {
		var importance []byte
		if r.Importance != nil {
			if importance, err = json.Marshal(r.Importance); err != nil {
				return fmt.Errorf("failed to marshal importance for role %q: %w", r.Tag, err)
			}
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO catalog_roles (tag, skills, importance, seniority)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (tag) DO UPDATE SET skills = $2, importance = $3, seniority = $4`,
			r.Tag, nonNil(r.Skills), importance, r.Seniority.String())
		if err != nil {
			return fmt.Errorf("failed to import role %q: %w", r.Tag, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	s.log.Info("imported catalog",
		zap.Int("jobs", len(snap.Jobs)), zap.Int("courses", len(snap.Courses)), zap.Int("roles", len(snap.Roles)))
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
