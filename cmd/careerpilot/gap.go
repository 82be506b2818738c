package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/careerpilot/internal/export"
)

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Report the skills a resume lacks for a job or role",
	Long:  "Compares a ResumeProfile's skills with a catalog job or role and reports the missing skills, most important first, alongside the ones already matched.",
	RunE:  runGap,
}

var (
	gapProfile string
	gapJobID   string
	gapRole    string
	gapOutput  string
	gapXLSX    string
)

func init() {
	gapCmd.Flags().StringVarP(&gapProfile, "profile", "p", "", "Path to input ResumeProfile JSON file (required)")
	gapCmd.Flags().StringVar(&gapJobID, "job-id", "", "Catalog job to compare against")
	gapCmd.Flags().StringVar(&gapRole, "role", "", "Catalog role tag to compare against")
	gapCmd.Flags().StringVarP(&gapOutput, "out", "o", "", "Path to output GapReport JSON file (default stdout)")
	gapCmd.Flags().StringVar(&gapXLSX, "xlsx", "", "Also write an Excel workbook to this path")
	markRequired(gapCmd, "profile")
	gapCmd.MarkFlagsMutuallyExclusive("job-id", "role")
	gapCmd.MarkFlagsOneRequired("job-id", "role")

	rootCmd.AddCommand(gapCmd)
}

func runGap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	profile, err := loadProfile(gapProfile)
	if err != nil {
		return err
	}

	store, err := a.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	target, err := resolveTarget(ctx, store, gapJobID, gapRole)
	if err != nil {
		return err
	}

	report, err := a.engine.AnalyzeGap(profile, target)
	if err != nil {
		return fmt.Errorf("failed to analyze gap: %w", err)
	}
	a.log.Info("analyzed gap",
		zap.String("target", report.Target),
		zap.Int("missing", len(report.Missing)),
		zap.Int("matched", len(report.Matched)))

	if a.cfg.Verbose {
		a.printer.PrintGapReport(report)
	}

	if gapXLSX != "" {
		written, err := export.WriteWorkbook(export.Workbook{CandidateID: profile.CandidateID, Gap: report}, gapXLSX)
		if err != nil {
			return err
		}
		a.log.Info("wrote workbook", zap.String("path", written))
	}

	return a.writeOutput(gapOutput, report)
}
