// Package export renders programs and simulation reports as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/simulate"
)

const (
	SheetOverview = "Overview"
	SheetProgram  = "Program"
	SheetWarnings = "Warnings"
	SheetRuns     = "Runs"
	SheetSummary  = "Summary"
)

var programHeaders = []string{"Session", "#", "Exercise", "Sets", "Reps", "Rest (s)", "Muscle", "Equipment", "Complexity"}

// WriteProgram writes p and its warnings as a workbook.
func WriteProgram(w io.Writer, p models.Program, warnings []models.Warning) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	overview := [][]any{
		{"Split", p.Split.Description()},
		{"Days per week", p.DaysPerWeek},
		{"Session length", program.DurationLabel(p.Duration)},
		{"Weeks", p.TotalWeeks},
		{"Sessions", len(p.Sessions)},
		{"Exercises", p.TotalExercises()},
	}
	for i, row := range overview {
		if err := setRow(f, SheetOverview, i+1, row); err != nil {
			return err
		}
	}
	f.SetCellStyle(SheetOverview, "A1", fmt.Sprintf("A%d", len(overview)), bold)
	f.SetColWidth(SheetOverview, "A", "A", 18)
	f.SetColWidth(SheetOverview, "B", "B", 28)

	if _, err := f.NewSheet(SheetProgram); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := writeHeader(f, SheetProgram, programHeaders, bold); err != nil {
		return err
	}
	row := 2
	for _, s := range p.Sessions {
		for i, ex := range s.Exercises {
			if err := setRow(f, SheetProgram, row, []any{
				s.Name, i + 1, ex.Name, ex.Sets, ex.RepRange, ex.RestSeconds,
				ex.PrimaryMuscle, ex.Equipment, ex.Complexity,
			}); err != nil {
				return err
			}
			row++
		}
	}
	f.SetColWidth(SheetProgram, "A", "A", 14)
	f.SetColWidth(SheetProgram, "C", "C", 32)
	f.SetColWidth(SheetProgram, "H", "H", 22)
	f.SetPanes(SheetProgram, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if len(warnings) > 0 {
		if _, err := f.NewSheet(SheetWarnings); err != nil {
			return fmt.Errorf("creating sheet: %w", err)
		}
		if err := writeHeader(f, SheetWarnings, []string{"Kind", "Muscle", "Message"}, bold); err != nil {
			return err
		}
		for i, warn := range models.UniqueWarnings(warnings) {
			if err := setRow(f, SheetWarnings, i+2, []any{string(warn.Kind), warn.Muscle, warn.Message()}); err != nil {
				return err
			}
		}
		f.SetColWidth(SheetWarnings, "C", "C", 80)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

var runHeaders = []string{
	"Run", "Status", "Days", "Duration", "Experience", "Equipment", "Split",
	"Slots required", "Slots filled", "Fill %", "Exercises", "Warnings", "Fallback", "Details",
}

// WriteSimulation writes one row per simulated user plus a summary sheet.
func WriteSimulation(w io.Writer, report *simulate.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	sum := report.Summary
	rows := [][]any{
		{"Runs", sum.Runs},
		{"Successes", sum.Successes},
		{"Success rate %", round1(sum.SuccessRate)},
		{"Average fill %", round1(sum.AvgFillRate)},
		{},
		{"Status", "Count"},
	}
	statuses := make([]string, 0, len(sum.StatusCounts))
	for s := range sum.StatusCounts {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		rows = append(rows, []any{s, sum.StatusCounts[simulate.Status(s)]})
	}
	rows = append(rows, []any{}, []any{"Failing muscle", "Count"})
	for _, m := range sum.FailingMuscles {
		rows = append(rows, []any{m.Muscle, m.Count})
	}
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		if err := setRow(f, SheetSummary, i+1, r); err != nil {
			return err
		}
	}
	f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), bold)
	f.SetColWidth(SheetSummary, "A", "A", 22)

	if _, err := f.NewSheet(SheetRuns); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := writeHeader(f, SheetRuns, runHeaders, bold); err != nil {
		return err
	}
	for i, r := range report.Rows {
		q := r.Questionnaire
		if err := setRow(f, SheetRuns, i+2, []any{
			r.Run, string(r.Status), q.DaysPerWeek, q.SessionDuration, q.Experience,
			strings.Join(q.Equipment, ", "), string(r.Split), r.SlotsRequired, r.SlotsFilled,
			round1(r.FillRate), r.Exercises, r.Warnings, r.FallbackUsed, r.Details,
		}); err != nil {
			return err
		}
	}
	f.SetColWidth(SheetRuns, "F", "F", 40)
	f.SetColWidth(SheetRuns, "N", "N", 60)
	f.SetPanes(SheetRuns, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	if err := f.AutoFilter(SheetRuns, fmt.Sprintf("A1:N%d", len(report.Rows)+1), nil); err != nil {
		return fmt.Errorf("adding filter: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := setRow(f, sheet, 1, row); err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
