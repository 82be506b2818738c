package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/careerpilot/internal/catalog"
)

var upliftCmd = &cobra.Command{
	Use:   "uplift",
	Short: "Project the match score change from completing a course",
	Long:  "Scores a ResumeProfile against a catalog job before and after adding the skills a catalog course teaches, reporting the difference.",
	RunE:  runUplift,
}

var (
	upliftProfile  string
	upliftJobID    string
	upliftCourseID string
	upliftOutput   string
)

func init() {
	upliftCmd.Flags().StringVarP(&upliftProfile, "profile", "p", "", "Path to input ResumeProfile JSON file (required)")
	upliftCmd.Flags().StringVar(&upliftJobID, "job-id", "", "Catalog job to score against (required)")
	upliftCmd.Flags().StringVar(&upliftCourseID, "course-id", "", "Catalog course to complete (required)")
	upliftCmd.Flags().StringVarP(&upliftOutput, "out", "o", "", "Path to output Uplift JSON file (default stdout)")
	markRequired(upliftCmd, "profile", "job-id", "course-id")

	rootCmd.AddCommand(upliftCmd)
}

func runUplift(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	profile, err := loadProfile(upliftProfile)
	if err != nil {
		return err
	}

	store, err := a.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	job, err := catalog.FindJob(ctx, store, upliftJobID)
	if err != nil {
		return err
	}
	courses, err := store.Courses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}
	idx := -1
	for i := range courses {
		if courses[i].ID == upliftCourseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("course %q: %w", upliftCourseID, catalog.ErrNotFound)
	}

	uplift, err := a.engine.ProjectUplift(profile, job, &courses[idx])
	if err != nil {
		return fmt.Errorf("failed to project uplift: %w", err)
	}
	a.log.Info("projected uplift",
		zap.String("job_id", uplift.JobID),
		zap.String("course_id", uplift.CourseID),
		zap.Float64("delta", uplift.Delta))

	if a.cfg.Verbose {
		a.printer.PrintUplift(uplift)
	}

	return a.writeOutput(upliftOutput, uplift)
}
