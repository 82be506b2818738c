package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/careerpilot/internal/catalog"
	"github.com/jonathan/careerpilot/internal/export"
	"github.com/jonathan/careerpilot/internal/schemas"
	"github.com/jonathan/careerpilot/internal/types"
)

var matchJobsCmd = &cobra.Command{
	Use:   "match-jobs",
	Short: "Rank job postings for a resume profile",
	Long:  "Scores a ResumeProfile against every job in the catalog (or a jobs JSON file), producing a MatchReport ranked by match score with the skill gap per job.",
	RunE:  runMatchJobs,
}

var (
	matchJobsProfile       string
	matchJobsFile          string
	matchJobsQuery         string
	matchJobsLocation      string
	matchJobsSeniority     string
	matchJobsMaxExperience int
	matchJobsTop           int
	matchJobsOutput        string
	matchJobsXLSX          string
)

func init() {
	matchJobsCmd.Flags().StringVarP(&matchJobsProfile, "profile", "p", "", "Path to input ResumeProfile JSON file (required)")
	matchJobsCmd.Flags().StringVarP(&matchJobsFile, "jobs", "j", "", "Path to a JobPosting JSON array (default: configured catalog)")
	matchJobsCmd.Flags().StringVarP(&matchJobsQuery, "query", "q", "", "Only jobs whose title or company contains this text")
	matchJobsCmd.Flags().StringVar(&matchJobsLocation, "location", "", "Only jobs whose location contains this text")
	matchJobsCmd.Flags().StringVar(&matchJobsSeniority, "seniority", "", "Only jobs at this seniority tier")
	matchJobsCmd.Flags().IntVar(&matchJobsMaxExperience, "max-experience", 0, "Only jobs requiring at most this many years (0 disables)")
	matchJobsCmd.Flags().IntVarP(&matchJobsTop, "top", "n", 0, "Keep only the top N matches (0 keeps all)")
	matchJobsCmd.Flags().StringVarP(&matchJobsOutput, "out", "o", "", "Path to output MatchReport JSON file (default stdout)")
	matchJobsCmd.Flags().StringVar(&matchJobsXLSX, "xlsx", "", "Also write an Excel workbook to this path")
	markRequired(matchJobsCmd, "profile")

	rootCmd.AddCommand(matchJobsCmd)
}

func runMatchJobs(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	profile, err := loadProfile(matchJobsProfile)
	if err != nil {
		return err
	}

	var jobs []types.JobPosting
	if matchJobsFile != "" {
		if err := loadList(schemas.JobPosting, matchJobsFile, &jobs); err != nil {
			return err
		}
	} else {
		store, err := a.openCatalog(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		if jobs, err = store.Jobs(ctx); err != nil {
			return fmt.Errorf("failed to load jobs: %w", err)
		}
	}

	filter := catalog.JobFilter{
		Query:              matchJobsQuery,
		Location:           matchJobsLocation,
		MaxExperienceYears: matchJobsMaxExperience,
	}
	if matchJobsSeniority != "" {
		tier, err := types.ParseSeniorityTier(matchJobsSeniority)
		if err != nil {
			return fmt.Errorf("invalid --seniority: %w", err)
		}
		filter.Seniority = tier
	}
	filtered := catalog.FilterJobs(jobs, filter)
	a.log.Debug("filtered jobs", zap.Int("catalog", len(jobs)), zap.Int("kept", len(filtered)))

	report, err := a.engine.MatchJobs(ctx, profile, filtered)
	if err != nil {
		return fmt.Errorf("failed to match jobs: %w", err)
	}
	if matchJobsTop > 0 && len(report.Matches) > matchJobsTop {
		report.Matches = report.Matches[:matchJobsTop]
	}
	a.log.Info("ranked jobs", zap.String("candidate_id", report.CandidateID), zap.Int("count", len(report.Matches)))

	if a.cfg.Verbose {
		a.printer.PrintMatchReport(report)
	}

	if matchJobsXLSX != "" {
		written, err := export.WriteWorkbook(export.Workbook{CandidateID: report.CandidateID, Matches: report}, matchJobsXLSX)
		if err != nil {
			return err
		}
		a.log.Info("wrote workbook", zap.String("path", written))
	}

	return a.writeOutput(matchJobsOutput, report)
}
