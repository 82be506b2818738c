// Package pipeline provides the high-level orchestration for evaluating resumes,
// matching jobs and recommending courses.
package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/careerpilot/internal/features"
	"github.com/jonathan/careerpilot/internal/gap"
	"github.com/jonathan/careerpilot/internal/ranking"
	"github.com/jonathan/careerpilot/internal/scoring"
	"github.com/jonathan/careerpilot/internal/skills"
	"github.com/jonathan/careerpilot/internal/types"
)

// Progress steps
const (
	StepExtract = "extract"
	StepScore   = "score"
	StepRank    = "rank"
)

// ProgressEvent represents a progress update during a batch run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when batch progress occurs
type ProgressCallback func(event ProgressEvent)

// Options configures an Engine.
type Options struct {
	// Normalizer folds skills. Nil uses the process-wide normalizer at call time.
	Normalizer *skills.Normalizer
	// Now is the reference time for experience and recency. Nil uses time.Now.
	Now func() time.Time
	// Concurrency bounds batch fan-out. Zero or less uses GOMAXPROCS.
	Concurrency int
	OnProgress  ProgressCallback
}

// Engine runs the extractor, scorer, gap analyzer and ranker over batches of records.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	normalizer  *skills.Normalizer
	now         func() time.Time
	concurrency int
	onProgress  ProgressCallback
}

// New creates an Engine.
func New(opts Options) *Engine {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		normalizer:  opts.Normalizer,
		now:         opts.Now,
		concurrency: concurrency,
		onProgress:  opts.OnProgress,
	}
}

// Evaluation is the ATS assessment of one resume.
type Evaluation struct {
	Features    *features.ResumeFeatures `json:"features"`
	Score       types.ScoreResult        `json:"score"`
	Status      scoring.Status           `json:"status"`
	Suggestions []scoring.Suggestion     `json:"suggestions"`
}

// JobMatch is one ranked job for a candidate.
type JobMatch struct {
	Rank    int                `json:"rank"`
	JobID   string             `json:"job_id"`
	Title   string             `json:"title"`
	Company string             `json:"company,omitempty"`
	Score   types.ScoreResult  `json:"score"`
	Level   scoring.MatchLevel `json:"level"`
	// Gap is nil when the job lists no skills.
	Gap *types.GapReport `json:"gap,omitempty"`
}

// MatchReport holds the ranked jobs for one candidate.
type MatchReport struct {
	CandidateID string     `json:"candidate_id,omitempty"`
	Matches     []JobMatch `json:"matches"`
}

// CourseTarget is what a course recommendation aims at. Exactly one field is set.
type CourseTarget struct {
	Job  *types.JobPosting
	Role *types.RoleTarget
}

// CourseMatch is one ranked course.
type CourseMatch struct {
	Rank     int                 `json:"rank"`
	CourseID string              `json:"course_id"`
	Title    string              `json:"title"`
	Platform string              `json:"platform,omitempty"`
	Score    types.ScoreResult   `json:"score"`
	Covers   []types.SkillToken  `json:"covers"`
	Tier     types.SeniorityTier `json:"tier"`
	Hours    float64             `json:"duration_hours"`
}

// CourseReport holds the gap a candidate has against a target and the courses ranked to close it.
type CourseReport struct {
	Gap     *types.GapReport `json:"gap"`
	Courses []CourseMatch    `json:"courses"`
	Path    *LearningPath    `json:"learning_path"`
}

// LearningStep is one course on a learning path.
type LearningStep struct {
	Order    int                 `json:"order"`
	Rank     int                 `json:"rank"`
	CourseID string              `json:"course_id"`
	Title    string              `json:"title"`
	Tier     types.SeniorityTier `json:"tier"`
	Hours    float64             `json:"duration_hours"`
	Covers   []types.SkillToken  `json:"covers"`
}

// LearningPath sequences the ranked courses that cover a missing skill, easiest tier first.
type LearningPath struct {
	Steps      []LearningStep `json:"steps"`
	TotalHours float64        `json:"total_hours"`
	// Uplift applies every step's skills at once. It is set only for job targets.
	Uplift *Uplift `json:"uplift,omitempty"`
}

// Uplift is the change in job match score if a course's skills were added to the resume.
type Uplift struct {
	JobID    string            `json:"job_id"`
	CourseID string            `json:"course_id,omitempty"`
	Before   types.ScoreResult `json:"before"`
	After    types.ScoreResult `json:"after"`
	Delta    float64           `json:"delta"`
}

func (e *Engine) extractor() features.Extractor {
	return features.Extractor{Normalizer: e.Normalizer(), Now: e.now}
}

// Normalizer returns the normalizer the engine folds skills with.
func (e *Engine) Normalizer() *skills.Normalizer {
	if e.normalizer != nil {
		return e.normalizer
	}
	return skills.Default()
}

// emitProgress calls the progress callback if configured
func (e *Engine) emitProgress(step, message string, content any) {
	if e.onProgress != nil {
		e.onProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// EvaluateResume extracts features from a profile and scores it for ATS readiness.
func (e *Engine) EvaluateResume(profile *types.ResumeProfile) (*Evaluation, error) {
	f, err := e.extractor().Resume(profile)
	if err != nil {
		return nil, err
	}
	score, err := scoring.ATS(f)
	if err != nil {
		return nil, fmt.Errorf("failed to score resume: %w", err)
	}
	e.emitProgress(StepScore, fmt.Sprintf("ATS score %.0f", score.Total), score)

	return &Evaluation{
		Features:    f,
		Score:       score,
		Status:      scoring.StatusFor(score.Total),
		Suggestions: scoring.Suggestions(f),
	}, nil
}

// MatchJobs scores the profile against every job and ranks them by score, then catalog order.
// Any invalid job fails the whole call.
func (e *Engine) MatchJobs(ctx context.Context, profile *types.ResumeProfile, jobs []types.JobPosting) (*MatchReport, error) {
	ex := e.extractor()
	resume, err := ex.Resume(profile)
	if err != nil {
		return nil, err
	}
	e.emitProgress(StepExtract, fmt.Sprintf("Extracted %d skills from resume", resume.Skills.Len()), nil)

	matches := make([]JobMatch, len(jobs))
	err = e.fanOut(ctx, len(jobs), func(i int) error {
		job := &jobs[i]
		jf, err := ex.Job(job)
		if err != nil {
			return fmt.Errorf("job %q: %w", job.ID, err)
		}
		score, err := scoring.JobMatch(resume, jf)
		if err != nil {
			return fmt.Errorf("job %q: %w", job.ID, err)
		}

		var report *types.GapReport
		if jf.Required.Len()+jf.Preferred.Len() > 0 {
			report, err = gap.ForJob(resume, jf)
			if err != nil {
				return fmt.Errorf("job %q: %w", job.ID, err)
			}
		}

		matches[i] = JobMatch{
			JobID:   job.ID,
			Title:   job.Title,
			Company: job.Company,
			Score:   score,
			Level:   scoring.MatchLevelFor(score.Total),
			Gap:     report,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.emitProgress(StepScore, fmt.Sprintf("Scored %d jobs", len(jobs)), nil)

	items := make([]ranking.Item[int], len(matches))
	for i, m := range matches {
		items[i] = ranking.Item[int]{ID: m.JobID, Score: m.Score, Key: i}
	}
	ranked := make([]JobMatch, 0, len(matches))
	for pos, item := range ranking.Sorted(items) {
		m := matches[item.Key]
		m.Rank = pos + 1
		ranked = append(ranked, m)
	}
	e.emitProgress(StepRank, fmt.Sprintf("Ranked %d jobs", len(ranked)), nil)

	return &MatchReport{CandidateID: resume.CandidateID, Matches: ranked}, nil
}

// RecommendCourses analyzes the gap between the profile and target, then ranks
// courses by how much of that gap they close.
func (e *Engine) RecommendCourses(ctx context.Context, profile *types.ResumeProfile, target CourseTarget, courses []types.CourseRecord) (*CourseReport, error) {
	ex := e.extractor()
	resume, err := ex.Resume(profile)
	if err != nil {
		return nil, err
	}

	report, err := e.analyze(ex, resume, target)
	if err != nil {
		return nil, err
	}
	e.emitProgress(StepExtract, fmt.Sprintf("Found %d missing skills for %s", len(report.Missing), report.Target), report)

	matches := make([]CourseMatch, len(courses))
	taught := make([]types.SkillSet, len(courses))
	err = e.fanOut(ctx, len(courses), func(i int) error {
		course := &courses[i]
		cf, err := ex.Course(course)
		if err != nil {
			return fmt.Errorf("course %q: %w", course.ID, err)
		}
		score, err := scoring.CourseRelevance(report, cf)
		if err != nil {
			return fmt.Errorf("course %q: %w", course.ID, err)
		}

		covers := make([]types.SkillToken, 0)
		for _, token := range report.Missing {
			if cf.Taught.Has(token) {
				covers = append(covers, token)
			}
		}

		matches[i] = CourseMatch{
			CourseID: course.ID,
			Title:    course.Title,
			Platform: course.Platform,
			Score:    score,
			Covers:   covers,
			Tier:     cf.Tier,
			Hours:    cf.DurationHours,
		}
		taught[i] = cf.Taught
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.emitProgress(StepScore, fmt.Sprintf("Scored %d courses", len(courses)), nil)

	items := make([]ranking.Item[int], len(matches))
	for i, m := range matches {
		items[i] = ranking.Item[int]{ID: m.CourseID, Score: m.Score, Key: i}
	}
	ranked := make([]CourseMatch, 0, len(matches))
	pathSkills := types.NewSkillSet()
	for pos, item := range ranking.Sorted(items) {
		m := matches[item.Key]
		m.Rank = pos + 1
		ranked = append(ranked, m)
		if len(m.Covers) > 0 {
			pathSkills = pathSkills.Union(taught[item.Key])
		}
	}
	e.emitProgress(StepRank, fmt.Sprintf("Ranked %d courses", len(ranked)), nil)

	path := learningPath(ranked)
	if target.Job != nil {
		jf, err := ex.Job(target.Job)
		if err != nil {
			return nil, err
		}
		uplift, err := upliftFor(resume, jf, pathSkills)
		if err != nil {
			return nil, err
		}
		uplift.JobID = target.Job.ID
		path.Uplift = uplift
	}

	return &CourseReport{Gap: report, Courses: ranked, Path: path}, nil
}

// learningPath keeps the ranked courses that cover a missing skill and orders them
// by tier from entry to lead, then by rank.
func learningPath(ranked []CourseMatch) *LearningPath {
	steps := make([]LearningStep, 0)
	for _, m := range ranked {
		if len(m.Covers) == 0 {
			continue
		}
		steps = append(steps, LearningStep{
			Rank:     m.Rank,
			CourseID: m.CourseID,
			Title:    m.Title,
			Tier:     m.Tier,
			Hours:    m.Hours,
			Covers:   m.Covers,
		})
	}
	slices.SortStableFunc(steps, func(a, b LearningStep) int {
		if c := cmp.Compare(a.Tier, b.Tier); c != 0 {
			return c
		}
		return cmp.Compare(a.Rank, b.Rank)
	})

	path := &LearningPath{Steps: steps}
	for i := range steps {
		steps[i].Order = i + 1
		path.TotalHours += steps[i].Hours
	}
	return path
}

// AnalyzeGap reports the profile's missing and matched skills for a target.
func (e *Engine) AnalyzeGap(profile *types.ResumeProfile, target CourseTarget) (*types.GapReport, error) {
	ex := e.extractor()
	resume, err := ex.Resume(profile)
	if err != nil {
		return nil, err
	}
	return e.analyze(ex, resume, target)
}

// ProjectUplift computes how the job match score would change if the candidate
// completed the course.
func (e *Engine) ProjectUplift(profile *types.ResumeProfile, job *types.JobPosting, course *types.CourseRecord) (*Uplift, error) {
	ex := e.extractor()
	resume, err := ex.Resume(profile)
	if err != nil {
		return nil, err
	}
	jf, err := ex.Job(job)
	if err != nil {
		return nil, err
	}
	cf, err := ex.Course(course)
	if err != nil {
		return nil, err
	}

	uplift, err := upliftFor(resume, jf, cf.Taught)
	if err != nil {
		return nil, err
	}
	uplift.JobID = job.ID
	uplift.CourseID = course.ID
	return uplift, nil
}

// upliftFor scores the job before and after adding learned to the resume's skills.
func upliftFor(resume *features.ResumeFeatures, jf *features.TargetFeatures, learned types.SkillSet) (*Uplift, error) {
	before, err := scoring.JobMatch(resume, jf)
	if err != nil {
		return nil, err
	}
	upskilled := *resume
	upskilled.Skills = resume.Skills.Union(learned)
	after, err := scoring.JobMatch(&upskilled, jf)
	if err != nil {
		return nil, err
	}
	return &Uplift{Before: before, After: after, Delta: after.Total - before.Total}, nil
}

func (e *Engine) analyze(ex features.Extractor, resume *features.ResumeFeatures, target CourseTarget) (*types.GapReport, error) {
	switch {
	case target.Job != nil && target.Role != nil:
		return nil, types.NewInvalidInput("target", "set either a job or a role, not both")
	case target.Job != nil:
		jf, err := ex.Job(target.Job)
		if err != nil {
			return nil, err
		}
		return gap.ForJob(resume, jf)
	case target.Role != nil:
		return gap.ForRole(ex.Normalizer, resume, target.Role)
	default:
		return nil, types.NewInvalidInput("target", "a job or a role is required")
	}
}

// fanOut runs fn for every index in [0,n) with bounded concurrency and waits for all of them.
// The first error cancels the remaining work.
func (e *Engine) fanOut(ctx context.Context, n int, fn func(i int) error) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range n {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	return g.Wait()
}
