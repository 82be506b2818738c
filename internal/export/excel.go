// Package export writes engine results to Excel workbooks.
package export

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/careerpilot/internal/pipeline"
	"github.com/jonathan/careerpilot/internal/scoring"
	"github.com/jonathan/careerpilot/internal/types"
)

// Sheet names
const (
	SheetSummary = "Summary"
	SheetATS     = "ATS Breakdown"
	SheetJobs    = "Job Matches"
	SheetCourses = "Courses"
	SheetGap     = "Skill Gap"
)

// Workbook is the content of an export. Nil sections are skipped.
type Workbook struct {
	CandidateID string
	Generated   time.Time

	Evaluation *pipeline.Evaluation
	Matches    *pipeline.MatchReport
	Courses    *pipeline.CourseReport
	Gap        *types.GapReport
}

var border = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// levelColors fills job rows by match level
var levelColors = map[scoring.MatchLevel]string{
	scoring.MatchStrong:   "C6EFCE",
	scoring.MatchModerate: "FFEB9C",
	scoring.MatchWeak:     "FFC7CE",
}

// WriteWorkbook writes wb to outputPath, adding the .xlsx extension if missing.
// It returns the path written.
func WriteWorkbook(wb Workbook, outputPath string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	if wb.Generated.IsZero() {
		wb.Generated = time.Now()
	}

	styles, err := newStyles(f)
	if err != nil {
		return "", fmt.Errorf("failed to create styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return "", err
	}
	if err := writeSummary(f, styles, wb); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if wb.Evaluation != nil {
		if err := writeATS(f, styles, wb.Evaluation); err != nil {
			return "", fmt.Errorf("failed to create ATS sheet: %w", err)
		}
	}
	if wb.Matches != nil {
		if err := writeJobs(f, styles, wb.Matches); err != nil {
			return "", fmt.Errorf("failed to create job matches sheet: %w", err)
		}
	}
	if wb.Courses != nil {
		if err := writeCourses(f, styles, wb.Courses); err != nil {
			return "", fmt.Errorf("failed to create courses sheet: %w", err)
		}
	}
	gap := wb.Gap
	if gap == nil && wb.Courses != nil {
		gap = wb.Courses.Gap
	}
	if gap != nil {
		if err := writeGap(f, styles, gap); err != nil {
			return "", fmt.Errorf("failed to create skill gap sheet: %w", err)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return outputPath, nil
}

type styleSet struct {
	title  int
	label  int
	header int
	cell   int
	levels map[scoring.MatchLevel]int
}

func newStyles(f *excelize.File) (*styleSet, error) {
	s := &styleSet{levels: make(map[scoring.MatchLevel]int)}
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return nil, err
	}
	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return nil, err
	}
	if s.cell, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    border,
	}); err != nil {
		return nil, err
	}
	for level, color := range levelColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: border,
		})
		if err != nil {
			return nil, err
		}
		s.levels[level] = style
	}
	return s, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func writeHeaders(f *excelize.File, sheet string, style int, headers []string) error {
	for col, header := range headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell(name, 1), header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell(name, 1), cell(name, 1), style); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, s *styleSet, wb Workbook) error {
	sheet := SheetSummary
	_ = f.SetColWidth(sheet, "A", "A", 25)
	_ = f.SetColWidth(sheet, "B", "B", 50)

	_ = f.SetCellValue(sheet, "A1", "CareerPilot Report")
	_ = f.SetCellStyle(sheet, "A1", "B1", s.title)
	if err := f.MergeCell(sheet, "A1", "B1"); err != nil {
		return err
	}

	rows := [][2]any{
		{"Candidate:", wb.CandidateID},
		{"Generated:", wb.Generated.Format("2006-01-02 15:04:05")},
	}
	if wb.Evaluation != nil {
		rows = append(rows,
			[2]any{"ATS Score:", wb.Evaluation.Score.Total},
			[2]any{"ATS Status:", wb.Evaluation.Status.Label},
		)
	}
	if wb.Matches != nil {
		rows = append(rows, [2]any{"Jobs Ranked:", len(wb.Matches.Matches)})
		if len(wb.Matches.Matches) > 0 {
			top := wb.Matches.Matches[0]
			rows = append(rows, [2]any{"Best Match:", fmt.Sprintf("%s (%.1f%%)", top.Title, top.Score.Total)})
		}
	}
	if wb.Courses != nil {
		rows = append(rows, [2]any{"Courses Ranked:", len(wb.Courses.Courses)})
		if path := wb.Courses.Path; path != nil && len(path.Steps) > 0 {
			rows = append(rows, [2]any{"Learning Path:", fmt.Sprintf("%d courses, %.0fh", len(path.Steps), path.TotalHours)})
		}
	}

	for i, r := range rows {
		row := i + 3
		if err := f.SetCellValue(sheet, cell("A", row), r[0]); err != nil {
			return err
		}
		_ = f.SetCellStyle(sheet, cell("A", row), cell("A", row), s.label)
		if err := f.SetCellValue(sheet, cell("B", row), r[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeATS(f *excelize.File, s *styleSet, eval *pipeline.Evaluation) error {
	sheet := SheetATS
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	if err := writeHeaders(f, sheet, s.header, []string{"Component", "Points"}); err != nil {
		return err
	}

	row := 2
	for _, name := range sortedComponents(eval.Score.Breakdown) {
		_ = f.SetCellValue(sheet, cell("A", row), name)
		_ = f.SetCellValue(sheet, cell("B", row), round2(eval.Score.Breakdown[name]))
		_ = f.SetCellStyle(sheet, cell("A", row), cell("B", row), s.cell)
		row++
	}
	_ = f.SetCellValue(sheet, cell("A", row), "Total")
	_ = f.SetCellValue(sheet, cell("B", row), eval.Score.Total)
	_ = f.SetCellStyle(sheet, cell("A", row), cell("B", row), s.label)
	row += 2

	if len(eval.Suggestions) > 0 {
		_ = f.SetCellValue(sheet, cell("A", row), "Suggestion")
		_ = f.SetCellValue(sheet, cell("B", row), "Potential Gain")
		_ = f.SetCellStyle(sheet, cell("A", row), cell("B", row), s.header)
		row++
		for _, sg := range eval.Suggestions {
			_ = f.SetCellValue(sheet, cell("A", row), sg.Title+": "+sg.Description)
			_ = f.SetCellValue(sheet, cell("B", row), round2(sg.PotentialGain))
			_ = f.SetCellStyle(sheet, cell("A", row), cell("B", row), s.cell)
			row++
		}
	}
	return nil
}

func writeJobs(f *excelize.File, s *styleSet, report *pipeline.MatchReport) error {
	sheet := SheetJobs
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	widths := map[string]float64{"A": 8, "B": 18, "C": 28, "D": 20, "E": 12, "F": 12, "G": 40}
	for col, w := range widths {
		_ = f.SetColWidth(sheet, col, col, w)
	}
	headers := []string{"Rank", "Job ID", "Title", "Company", "Match %", "Level", "Missing Skills"}
	if err := writeHeaders(f, sheet, s.header, headers); err != nil {
		return err
	}

	for i, m := range report.Matches {
		row := i + 2
		var missing string
		if m.Gap != nil {
			missing = joinTokens(m.Gap.Missing)
		}
		values := []any{m.Rank, m.JobID, m.Title, m.Company, round2(m.Score.Total), string(m.Level), missing}
		for col, v := range values {
			name, _ := excelize.ColumnNumberToName(col + 1)
			if err := f.SetCellValue(sheet, cell(name, row), v); err != nil {
				return err
			}
		}
		_ = f.SetCellStyle(sheet, cell("A", row), cell("G", row), s.levels[m.Level])
	}

	if len(report.Matches) > 0 {
		return f.AutoFilter(sheet, fmt.Sprintf("A1:G%d", len(report.Matches)+1), []excelize.AutoFilterOptions{})
	}
	return nil
}

func writeCourses(f *excelize.File, s *styleSet, report *pipeline.CourseReport) error {
	sheet := SheetCourses
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	widths := map[string]float64{"A": 8, "B": 18, "C": 34, "D": 18, "E": 12, "F": 40}
	for col, w := range widths {
		_ = f.SetColWidth(sheet, col, col, w)
	}
	headers := []string{"Rank", "Course ID", "Title", "Platform", "Relevance", "Covers"}
	if err := writeHeaders(f, sheet, s.header, headers); err != nil {
		return err
	}

	for i, c := range report.Courses {
		row := i + 2
		values := []any{c.Rank, c.CourseID, c.Title, c.Platform, round2(c.Score.Total), joinTokens(c.Covers)}
		for col, v := range values {
			name, _ := excelize.ColumnNumberToName(col + 1)
			if err := f.SetCellValue(sheet, cell(name, row), v); err != nil {
				return err
			}
		}
		_ = f.SetCellStyle(sheet, cell("A", row), cell("F", row), s.cell)
	}
	return nil
}

func writeGap(f *excelize.File, s *styleSet, report *types.GapReport) error {
	sheet := SheetGap
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "A", 30)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	if err := writeHeaders(f, sheet, s.header, []string{"Skill", "Status"}); err != nil {
		return err
	}

	row := 2
	for _, token := range report.Missing {
		_ = f.SetCellValue(sheet, cell("A", row), string(token))
		_ = f.SetCellValue(sheet, cell("B", row), "missing")
		_ = f.SetCellStyle(sheet, cell("A", row), cell("B", row), s.levels[scoring.MatchWeak])
		row++
	}
	for _, token := range report.Matched {
		_ = f.SetCellValue(sheet, cell("A", row), string(token))
		_ = f.SetCellValue(sheet, cell("B", row), "matched")
		_ = f.SetCellStyle(sheet, cell("A", row), cell("B", row), s.levels[scoring.MatchStrong])
		row++
	}
	return nil
}

func sortedComponents(breakdown map[string]float64) []string {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func joinTokens(tokens []types.SkillToken) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
