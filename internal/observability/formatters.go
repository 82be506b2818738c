// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jonathan/careerpilot/internal/pipeline"
	"github.com/jonathan/careerpilot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintEvaluation outputs the ATS score, its components and the improvement tips.
func (p *Printer) PrintEvaluation(eval *pipeline.Evaluation) {
	if eval == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS Score: %.0f/100 (%s)\n", eval.Score.Total, eval.Status.Label))
	if eval.Features != nil {
		sb.WriteString(fmt.Sprintf("Skills:    %d\n", eval.Features.Skills.Len()))
		sb.WriteString(fmt.Sprintf("Experience: %.1f years (%s)\n", eval.Features.YearsExperience, eval.Features.InferredTier))
	}
	sb.WriteString("\n")

	for _, name := range sortedKeys(eval.Score.Breakdown) {
		sb.WriteString(fmt.Sprintf("  %-22s %6.2f\n", name, eval.Score.Breakdown[name]))
	}

	if len(eval.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		count := min(len(eval.Suggestions), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := eval.Suggestions[i]
			sb.WriteString(fmt.Sprintf("  • %s (+%.1f)\n", s.Title, s.PotentialGain))
		}
	}

	p.printBox("ATS EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchReport outputs the top N ranked jobs with their match level and missing skills.
func (p *Printer) PrintMatchReport(report *pipeline.MatchReport) {
	if report == nil || len(report.Matches) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total jobs ranked: %d\n\n", len(report.Matches)))

	count := min(len(report.Matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := report.Matches[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", m.Rank, m.Title))
		sb.WriteString(fmt.Sprintf("    Match: %.1f%% (%s)\n", m.Score.Total, m.Level))
		if m.Gap != nil && len(m.Gap.Missing) > 0 {
			sb.WriteString(fmt.Sprintf("    Missing: %s\n", truncate(joinTokens(m.Gap.Missing), 40)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(report.Matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(report.Matches)-maxItemsToShow))
	}

	p.printBox("TOP JOB MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCourseReport outputs the gap summary and the top N recommended courses.
func (p *Printer) PrintCourseReport(report *pipeline.CourseReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	if report.Gap != nil {
		sb.WriteString(fmt.Sprintf("Target:  %s\n", report.Gap.Target))
		sb.WriteString(fmt.Sprintf("Missing: %d skills\n\n", len(report.Gap.Missing)))
	}

	if len(report.Courses) == 0 {
		sb.WriteString("No courses in catalog")
	}
	count := min(len(report.Courses), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := report.Courses[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", c.Rank, c.Title))
		sb.WriteString(fmt.Sprintf("    Relevance: %.1f", c.Score.Total))
		if c.Platform != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", c.Platform))
		}
		sb.WriteString("\n")
		if len(c.Covers) > 0 {
			sb.WriteString(fmt.Sprintf("    Covers: %s\n", truncate(joinTokens(c.Covers), 40)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(report.Courses) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more courses", len(report.Courses)-maxItemsToShow))
	}

	p.printBox("RECOMMENDED COURSES", strings.TrimSuffix(sb.String(), "\n"))
	p.PrintLearningPath(report.Path)
}

// PrintLearningPath outputs the suggested course sequence with hours and projected uplift.
func (p *Printer) PrintLearningPath(path *pipeline.LearningPath) {
	if path == nil || len(path.Steps) == 0 {
		return
	}

	var sb strings.Builder
	for _, s := range path.Steps {
		sb.WriteString(fmt.Sprintf("%d. %s (%s, %.0fh)\n", s.Order, s.Title, s.Tier, s.Hours))
		sb.WriteString(fmt.Sprintf("   Covers: %s\n", truncate(joinTokens(s.Covers), 40)))
	}
	sb.WriteString(fmt.Sprintf("\nTotal:  %.0fh", path.TotalHours))
	if u := path.Uplift; u != nil {
		sb.WriteString(fmt.Sprintf("\nUplift: %.1f -> %.1f (%+.1f)", u.Before.Total, u.After.Total, u.Delta))
	}

	p.printBox("SUGGESTED LEARNING PATH", sb.String())
}

// PrintGapReport outputs the missing and matched skills for a target.
func (p *Printer) PrintGapReport(report *types.GapReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Target: %s\n", report.Target))
	sb.WriteString(fmt.Sprintf("Tier:   %s\n\n", report.CandidateTier))

	writeList := func(label string, tokens []types.SkillToken) {
		sb.WriteString(fmt.Sprintf("%s (%d):\n", label, len(tokens)))
		count := min(len(tokens), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", tokens[i]))
		}
		if len(tokens) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(tokens)-maxItemsToShow))
		}
	}
	writeList("Missing", report.Missing)
	sb.WriteString("\n")
	writeList("Matched", report.Matched)

	p.printBox("SKILL GAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUplift outputs the projected score change from completing a course.
func (p *Printer) PrintUplift(u *pipeline.Uplift) {
	if u == nil {
		return
	}

	content := fmt.Sprintf("Job:    %s\nCourse: %s\n\nBefore: %.1f\nAfter:  %.1f\nDelta:  %+.1f",
		u.JobID, u.CourseID, u.Before.Total, u.After.Total, u.Delta)
	p.printBox("PROJECTED UPLIFT", content)
}

func joinTokens(tokens []types.SkillToken) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
