package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/careerpilot/internal/export"
)

var atsCmd = &cobra.Command{
	Use:   "ats",
	Short: "Score a resume profile for ATS readiness",
	Long:  "Extracts features from a ResumeProfile JSON file and scores it for ATS readiness, producing the score breakdown, status band and improvement suggestions.",
	RunE:  runATS,
}

var (
	atsProfile string
	atsOutput  string
	atsXLSX    string
)

func init() {
	atsCmd.Flags().StringVarP(&atsProfile, "profile", "p", "", "Path to input ResumeProfile JSON file (required)")
	atsCmd.Flags().StringVarP(&atsOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	atsCmd.Flags().StringVar(&atsXLSX, "xlsx", "", "Also write an Excel workbook to this path")
	markRequired(atsCmd, "profile")

	rootCmd.AddCommand(atsCmd)
}

func runATS(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	profile, err := loadProfile(atsProfile)
	if err != nil {
		return err
	}

	eval, err := a.engine.EvaluateResume(profile)
	if err != nil {
		return fmt.Errorf("failed to evaluate resume: %w", err)
	}
	a.log.Info("scored resume",
		zap.String("candidate_id", profile.CandidateID),
		zap.Float64("total", eval.Score.Total),
		zap.String("status", eval.Status.Label))

	if a.cfg.Verbose {
		a.printer.PrintEvaluation(eval)
	}

	if atsXLSX != "" {
		written, err := export.WriteWorkbook(export.Workbook{CandidateID: profile.CandidateID, Evaluation: eval}, atsXLSX)
		if err != nil {
			return err
		}
		a.log.Info("wrote workbook", zap.String("path", written))
	}

	return a.writeOutput(atsOutput, eval)
}
