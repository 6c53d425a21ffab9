// Package importer provides CSV, Excel, and DXF import for backing
// schedules and wall plans. It supports automatic delimiter detection,
// flexible column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/BackCheck/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of a backing schedule import.
type ImportResult struct {
	Backings []model.BackingPlacement
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Type      int
	Width     int
	Height    int
	Thickness int
	X         int
	Y         int
	Z         int
	Component int
}

// headerAliases maps canonical column names to their accepted aliases
// (all lowercase).
var headerAliases = map[string][]string{
	"type":      {"type", "backing", "backing type", "material", "lumber", "size"},
	"width":     {"width", "w", "length", "len"},
	"height":    {"height", "h"},
	"thickness": {"thickness", "thick", "depth", "t"},
	"x":         {"x", "x pos", "x position", "left"},
	"y":         {"y", "y pos", "y position", "top"},
	"z":         {"z", "aff", "height aff", "mount height", "elevation"},
	"component": {"component", "component id", "fixture", "supports", "item"},
}

// DetectCSVDelimiter reads the file content and determines the most
// likely CSV delimiter. It tries comma, semicolon, tab, and pipe; the
// delimiter that produces the most consistent column count wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each
// column role. Returns the mapping and true if a header was detected,
// or a default positional mapping and false if none was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Type: -1, Width: -1, Height: -1, Thickness: -1,
		X: -1, Y: -1, Z: -1, Component: -1,
	}

	set := func(target *int, idx int) {
		if *target == -1 {
			*target = idx
		}
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "type":
					set(&mapping.Type, i)
				case "width":
					set(&mapping.Width, i)
				case "height":
					set(&mapping.Height, i)
				case "thickness":
					set(&mapping.Thickness, i)
				case "x":
					set(&mapping.X, i)
				case "y":
					set(&mapping.Y, i)
				case "z":
					set(&mapping.Z, i)
				case "component":
					set(&mapping.Component, i)
				}
			}
		}
	}

	if !isHeader {
		// Positional fallback: Type, Width, Height, Thickness, X, Y, Z, Component
		return ColumnMapping{
			Type: 0, Width: 1, Height: 2, Thickness: 3,
			X: 4, Y: 5, Z: 6, Component: 7,
		}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseFloatCell parses a required numeric cell.
func parseFloatCell(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a backing placement from a row using the given
// column mapping. Returns the backing, any error message, and any
// warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.BackingPlacement, string, string) {
	typeStr := getCell(row, mapping.Type)
	if typeStr == "" {
		return model.BackingPlacement{}, fmt.Sprintf("%s: Missing backing type", rowLabel), ""
	}
	backingType := model.BackingType(typeStr)

	var warning string
	known := false
	for _, name := range model.MaterialTypeNames() {
		if name == typeStr {
			known = true
			break
		}
	}
	if !known {
		warning = fmt.Sprintf("%s: Unknown backing type '%s', structural limits default to most restrictive", rowLabel, typeStr)
	}

	width, errMsg := parseFloatCell(row, mapping.Width, "width", rowLabel)
	if errMsg != "" {
		return model.BackingPlacement{}, errMsg, ""
	}
	height, errMsg := parseFloatCell(row, mapping.Height, "height", rowLabel)
	if errMsg != "" {
		return model.BackingPlacement{}, errMsg, ""
	}
	x, errMsg := parseFloatCell(row, mapping.X, "x", rowLabel)
	if errMsg != "" {
		return model.BackingPlacement{}, errMsg, ""
	}
	y, errMsg := parseFloatCell(row, mapping.Y, "y", rowLabel)
	if errMsg != "" {
		return model.BackingPlacement{}, errMsg, ""
	}

	// Optional columns with material-table defaults.
	thickness := model.SpecFor(backingType).Thickness
	if s := getCell(row, mapping.Thickness); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.BackingPlacement{}, fmt.Sprintf("%s: Invalid thickness '%s'", rowLabel, s), ""
		}
		thickness = v
	}
	z := 0.0
	if s := getCell(row, mapping.Z); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.BackingPlacement{}, fmt.Sprintf("%s: Invalid mounting height '%s'", rowLabel, s), ""
		}
		z = v
	}

	if width <= 0 || height <= 0 || thickness <= 0 {
		return model.BackingPlacement{}, fmt.Sprintf("%s: Width, height, and thickness must be positive", rowLabel), ""
	}
	if z < 0 {
		return model.BackingPlacement{}, fmt.Sprintf("%s: Mounting height (AFF) cannot be negative", rowLabel), ""
	}

	backing := model.NewBacking(
		backingType,
		model.Dimensions{Width: width, Height: height, Thickness: thickness},
		model.Location{X: x, Y: y, Z: z},
		getCell(row, mapping.Component),
	)
	return backing, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportBackingsCSV imports a backing schedule from a CSV file.
// It automatically detects the delimiter and maps columns by header
// names. Supports comma, semicolon, tab, and pipe delimiters.
func ImportBackingsCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportBackingsCSVFromReader imports a backing schedule from a CSV
// reader with a specific delimiter. Useful for testing or when the
// delimiter is already known.
func ImportBackingsCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportBackingsExcel imports a backing schedule from an Excel (.xlsx)
// file. Reads the first sheet and auto-detects column mapping from
// headers.
func ImportBackingsExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Type == -1 {
			missing = append(missing, "Type")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// No recognized header: if the second column is not numeric the
		// first row is likely an unrecognized header. Skip it but keep
		// positional mapping.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		backing, errMsg, warning := parseRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Backings = append(result.Backings, backing)
	}

	return result
}
