package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/careerpilot/internal/export"
	"github.com/jonathan/careerpilot/internal/schemas"
	"github.com/jonathan/careerpilot/internal/types"
)

var recommendCoursesCmd = &cobra.Command{
	Use:   "recommend-courses",
	Short: "Rank courses that close a resume's skill gap",
	Long:  "Analyzes the skill gap between a ResumeProfile and a catalog job or role, then ranks catalog courses by how much of that gap they close.",
	RunE:  runRecommendCourses,
}

var (
	recommendProfile string
	recommendJobID   string
	recommendRole    string
	recommendCourses string
	recommendTop     int
	recommendOutput  string
	recommendXLSX    string
)

func init() {
	recommendCoursesCmd.Flags().StringVarP(&recommendProfile, "profile", "p", "", "Path to input ResumeProfile JSON file (required)")
	recommendCoursesCmd.Flags().StringVar(&recommendJobID, "job-id", "", "Catalog job to close the gap for")
	recommendCoursesCmd.Flags().StringVar(&recommendRole, "role", "", "Catalog role tag to close the gap for")
	recommendCoursesCmd.Flags().StringVar(&recommendCourses, "courses", "", "Path to a CourseRecord JSON array (default: configured catalog)")
	recommendCoursesCmd.Flags().IntVarP(&recommendTop, "top", "n", 0, "Keep only the top N courses (0 keeps all)")
	recommendCoursesCmd.Flags().StringVarP(&recommendOutput, "out", "o", "", "Path to output CourseReport JSON file (default stdout)")
	recommendCoursesCmd.Flags().StringVar(&recommendXLSX, "xlsx", "", "Also write an Excel workbook to this path")
	markRequired(recommendCoursesCmd, "profile")
	recommendCoursesCmd.MarkFlagsMutuallyExclusive("job-id", "role")
	recommendCoursesCmd.MarkFlagsOneRequired("job-id", "role")

	rootCmd.AddCommand(recommendCoursesCmd)
}

func runRecommendCourses(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	profile, err := loadProfile(recommendProfile)
	if err != nil {
		return err
	}

	store, err := a.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	target, err := resolveTarget(ctx, store, recommendJobID, recommendRole)
	if err != nil {
		return err
	}

	var courses []types.CourseRecord
	if recommendCourses != "" {
		if err := loadList(schemas.CourseRecord, recommendCourses, &courses); err != nil {
			return err
		}
	} else if courses, err = store.Courses(ctx); err != nil {
		return fmt.Errorf("failed to load courses: %w", err)
	}

	report, err := a.engine.RecommendCourses(ctx, profile, target, courses)
	if err != nil {
		return fmt.Errorf("failed to recommend courses: %w", err)
	}
	if recommendTop > 0 && len(report.Courses) > recommendTop {
		report.Courses = report.Courses[:recommendTop]
	}
	a.log.Info("ranked courses",
		zap.String("target", report.Gap.Target),
		zap.Int("missing", len(report.Gap.Missing)),
		zap.Int("count", len(report.Courses)))

	if a.cfg.Verbose {
		a.printer.PrintCourseReport(report)
	}

	if recommendXLSX != "" {
		written, err := export.WriteWorkbook(export.Workbook{CandidateID: profile.CandidateID, Courses: report}, recommendXLSX)
		if err != nil {
			return err
		}
		a.log.Info("wrote workbook", zap.String("path", written))
	}

	return a.writeOutput(recommendOutput, report)
}
