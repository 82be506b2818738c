package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jonathan/careerpilot/internal/logger"
	"github.com/jonathan/careerpilot/internal/types"
)

// sqliteSchema stores skill lists as JSON arrays. rowid gives insertion order.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id                   TEXT PRIMARY KEY,
	title                TEXT NOT NULL,
	company              TEXT NOT NULL DEFAULT '',
	location             TEXT NOT NULL DEFAULT '',
	required_skills      TEXT NOT NULL DEFAULT '[]',
	preferred_skills     TEXT NOT NULL DEFAULT '[]',
	min_experience_years INTEGER NOT NULL DEFAULT 0,
	seniority            TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS courses (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	platform         TEXT NOT NULL DEFAULT '',
	skills_taught    TEXT NOT NULL DEFAULT '[]',
	target_seniority TEXT NOT NULL,
	duration_hours   REAL NOT NULL,
	target_role      TEXT NOT NULL DEFAULT '',
	rating           REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS roles (
	tag        TEXT PRIMARY KEY,
	skills     TEXT NOT NULL DEFAULT '[]',
	importance TEXT,
	seniority  TEXT NOT NULL DEFAULT ''
);`

// SQLiteStore reads a catalog snapshot from a SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

// OpenSQLite opens (or creates) the SQLite catalog at path.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("sqlite catalog: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite catalog: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite catalog: init schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path, log: logger.OrNop(log)}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Jobs returns every job posting in insertion order.
func (s *SQLiteStore) Jobs(ctx context.Context) ([]types.JobPosting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, company, location, required_skills, preferred_skills, min_experience_years, seniority
		 FROM jobs ORDER BY rowid`)
	if err != nil {
		return nil, &LoadError{Source: s.path, Message: "failed to query jobs", Cause: err}
	}
	defer rows.Close()

	jobs := make([]types.JobPosting, 0)
	for rows.Next() {
		var (
			j                   types.JobPosting
			required, preferred string
			seniority           string
		)
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &required, &preferred,
			&j.MinExperienceYears, &seniority); err != nil {
			return nil, &LoadError{Source: s.path, Message: "failed to scan job", Cause: err}
		}
		if err := decodeList(required, &j.RequiredSkills); err != nil {
			return nil, &RecordError{Kind: KindJob, ID: j.ID, Cause: err}
		}
		if err := decodeList(preferred, &j.PreferredSkills); err != nil {
			return nil, &RecordError{Kind: KindJob, ID: j.ID, Cause: err}
		}
		if j.Seniority, err = types.ParseSeniorityTier(seniority); err != nil {
			return nil, &RecordError{Kind: KindJob, ID: j.ID, Cause: err}
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: s.path, Message: "error iterating jobs", Cause: err}
	}

	if err := validateJobs(jobs); err != nil {
		return nil, err
	}
	s.log.Debug("loaded jobs", zap.String("path", s.path), zap.Int("count", len(jobs)))
	return jobs, nil
}

// Courses returns every course in insertion order.
func (s *SQLiteStore) Courses(ctx context.Context) ([]types.CourseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, platform, skills_taught, target_seniority, duration_hours, target_role, rating
		 FROM courses ORDER BY rowid`)
	if err != nil {
		return nil, &LoadError{Source: s.path, Message: "failed to query courses", Cause: err}
	}
	defer rows.Close()

	courses := make([]types.CourseRecord, 0)
	for rows.Next() {
		var (
			c         types.CourseRecord
			taught    string
			seniority string
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Platform, &taught, &seniority,
			&c.DurationHours, &c.TargetRole, &c.Rating); err != nil {
			return nil, &LoadError{Source: s.path, Message: "failed to scan course", Cause: err}
		}
		if err := decodeList(taught, &c.SkillsTaught); err != nil {
			return nil, &RecordError{Kind: KindCourse, ID: c.ID, Cause: err}
		}
		if c.TargetSeniority, err = types.ParseSeniorityTier(seniority); err != nil {
			return nil, &RecordError{Kind: KindCourse, ID: c.ID, Cause: err}
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: s.path, Message: "error iterating courses", Cause: err}
	}

	if err := validateCourses(courses); err != nil {
		return nil, err
	}
	s.log.Debug("loaded courses", zap.String("path", s.path), zap.Int("count", len(courses)))
	return courses, nil
}

// Roles returns every role target in insertion order.
func (s *SQLiteStore) Roles(ctx context.Context) ([]types.RoleTarget, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag, skills, importance, seniority FROM roles ORDER BY rowid`)
	if err != nil {
		return nil, &LoadError{Source: s.path, Message: "failed to query roles", Cause: err}
	}
	defer rows.Close()

	roles := make([]types.RoleTarget, 0)
	for rows.Next() {
		var (
			r          types.RoleTarget
			skillsJSON string
			importance sql.NullString
			seniority  string
		)
		if err := rows.Scan(&r.Tag, &skillsJSON, &importance, &seniority); err != nil {
			return nil, &LoadError{Source: s.path, Message: "failed to scan role", Cause: err}
		}
		if err := decodeList(skillsJSON, &r.Skills); err != nil {
			return nil, &RecordError{Kind: KindRole, ID: r.Tag, Cause: err}
		}
		if importance.Valid {
			if err := json.Unmarshal([]byte(importance.String), &r.Importance); err != nil {
				return nil, &RecordError{Kind: KindRole, ID: r.Tag, Cause: err}
			}
		}
		if r.Seniority, err = types.ParseSeniorityTier(seniority); err != nil {
			return nil, &RecordError{Kind: KindRole, ID: r.Tag, Cause: err}
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: s.path, Message: "error iterating roles", Cause: err}
	}

	if err := validateRoles(roles); err != nil {
		return nil, err
	}
	s.log.Debug("loaded roles", zap.String("path", s.path), zap.Int("count", len(roles)))
	return roles, nil
}

// Import replaces the stored catalog with snap in one transaction.
// Records are validated first; nothing is written if any is invalid.
func (s *SQLiteStore) Import(ctx context.Context, snap *Snapshot) error {
	if err := validateJobs(snap.Jobs); err != nil {
		return err
	}
	if err := validateCourses(snap.Courses); err != nil {
		return err
	}
	if err := validateRoles(snap.Roles); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite catalog: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"jobs", "courses", "roles"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlite catalog: clear %s: %w", table, err)
		}
	}

	for _, j := range snap.Jobs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO jobs (id, title, company, location, required_skills, preferred_skills, min_experience_years, seniority)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			j.ID, j.Title, j.Company, j.Location, encodeList(j.RequiredSkills), encodeList(j.PreferredSkills),
			j.MinExperienceYears, j.Seniority.String())
		if err != nil {
			return fmt.Errorf("sqlite catalog: insert job %q: %w", j.ID, err)
		}
	}

	for _, c := range snap.Courses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO courses (id, title, platform, skills_taught, target_seniority, duration_hours, target_role, rating)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Title, c.Platform, encodeList(c.SkillsTaught), c.TargetSeniority.String(),
			c.DurationHours, c.TargetRole, c.Rating)
		if err != nil {
			return fmt.Errorf("sqlite catalog: insert course %q: %w", c.ID, err)
		}
	}

	for _, r := range snap.Roles {
		var importance sql.NullString
		if r.Importance != nil {
			data, err := json.Marshal(r.Importance)
			if err != nil {
				return fmt.Errorf("sqlite catalog: encode importance for role %q: %w", r.Tag, err)
			}
			importance = sql.NullString{String: string(data), Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO roles (tag, skills, importance, seniority) VALUES (?, ?, ?, ?)`,
			r.Tag, encodeList(r.Skills), importance, r.Seniority.String())
		if err != nil {
			return fmt.Errorf("sqlite catalog: insert role %q: %w", r.Tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite catalog: commit: %w", err)
	}
	s.log.Info("imported catalog snapshot", zap.String("path", s.path),
		zap.Int("jobs", len(snap.Jobs)), zap.Int("courses", len(snap.Courses)), zap.Int("roles", len(snap.Roles)))
	return nil
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func decodeList(data string, out *[]string) error {
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return err
	}
	if *out == nil {
		*out = []string{}
	}
	return nil
}
