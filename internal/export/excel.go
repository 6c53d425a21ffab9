package export

import (
	"fmt"
	"strings"

	"github.com/piwi3910/BackCheck/internal/engine"
	"github.com/piwi3910/BackCheck/internal/model"
	"github.com/xuri/excelize/v2"
)

// ExportExcel writes the analysis results to an .xlsx workbook with a
// backing schedule sheet and a clash list sheet. The schedule carries
// each backing's zone assignment so the same file round-trips through
// the schedule importer.
func ExportExcel(path string, results engine.DetectionResults) error {
	if len(results.Zones) == 0 && len(results.Clashes) == 0 {
		return fmt.Errorf("no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const scheduleSheet = "Backings"
	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return fmt.Errorf("failed to set up workbook: %w", err)
	}

	if err := writeSchedule(f, scheduleSheet, results); err != nil {
		return err
	}
	if err := writeClashes(f, results.Clashes); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeSchedule fills the backing schedule sheet.
func writeSchedule(f *excelize.File, sheet string, results engine.DetectionResults) error {
	headers := []string{"ID", "Type", "Width", "Height", "Thickness", "X", "Y", "AFF", "Component", "Zone", "Status"}
	worst := clashStatusByBacking(results.Clashes)

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := 2
	for _, z := range results.Zones {
		for _, b := range z.Backings {
			status := worst[b.ID]
			if status == "" {
				status = "clear"
			}
			values := []interface{}{
				b.ID, string(b.BackingType),
				b.Dimensions.Width, b.Dimensions.Height, b.Dimensions.Thickness,
				b.Location.X, b.Location.Y, b.Location.Z,
				b.ComponentID, b.ZoneID, status,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return fmt.Errorf("failed to address cell: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fmt.Errorf("failed to write backing %s: %w", b.ID, err)
				}
			}
			row++
		}
	}
	return nil
}

// writeClashes fills the clash list sheet.
func writeClashes(f *excelize.File, clashes []model.Clash) error {
	const sheet = "Clashes"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create clash sheet: %w", err)
	}

	headers := []string{"ID", "Type", "Severity", "Items", "Resolution"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, c := range clashes {
		values := []interface{}{
			c.ID, string(c.Type), string(c.Severity),
			strings.Join(c.Items, ", "), c.Resolution,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write clash %s: %w", c.ID, err)
			}
		}
	}
	return nil
}

// clashStatusByBacking maps each backing id to its worst clash severity.
func clashStatusByBacking(clashes []model.Clash) map[string]string {
	worst := make(map[string]string)
	for _, c := range clashes {
		for _, id := range c.Items {
			if c.Severity == model.SeverityError || worst[id] == "" {
				worst[id] = string(c.Severity)
			}
		}
	}
	return worst
}
