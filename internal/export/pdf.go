// Package export provides functionality for exporting backing analysis
// results to various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/BackCheck/internal/engine"
	"github.com/piwi3910/BackCheck/internal/geometry"
	"github.com/piwi3910/BackCheck/internal/model"
)

// rgb represents a fill color for a drawn element.
type rgb struct {
	R, G, B int
}

var (
	colorWall       = rgb{R: 120, G: 120, B: 120}
	colorStructural = rgb{R: 70, G: 70, B: 70}
	colorClean      = rgb{R: 76, G: 175, B: 80}   // green
	colorWarning    = rgb{R: 255, G: 152, B: 0}   // orange
	colorError      = rgb{R: 244, G: 67, B: 54}   // red
	colorZone       = rgb{R: 33, G: 150, B: 243}  // blue
	colorOpening    = rgb{R: 255, G: 255, B: 255} // openings punch through walls
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF report for a backing analysis: a plan-view
// page with walls, backings colored by clash severity, and zone
// outlines, followed by a clash list page and a summary page.
func ExportPDF(path string, results engine.DetectionResults, estimate model.PurchaseEstimate) error {
	if len(results.Walls) == 0 && countBackings(results) == 0 {
		return fmt.Errorf("nothing to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderPlanPage(pdf, results)

	if len(results.Clashes) > 0 {
		pdf.AddPage()
		renderClashPage(pdf, results.Clashes)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, results, estimate)

	return pdf.OutputFileAndClose(path)
}

func countBackings(results engine.DetectionResults) int {
	n := 0
	for _, z := range results.Zones {
		n += len(z.Backings)
	}
	return n
}

// planBounds computes the drawing extents covering all walls and zones.
func planBounds(results engine.DetectionResults) geometry.Rect {
	var bounds geometry.Rect
	first := true
	include := func(r geometry.Rect) {
		if first {
			bounds = r
			first = false
			return
		}
		bounds = geometry.Union(bounds, r)
	}

	for _, w := range results.Walls {
		include(w.Rect())
	}
	for _, z := range results.Zones {
		include(z.Bounds)
		for _, b := range z.Backings {
			include(b.Rect())
		}
	}
	if first {
		return geometry.NewRect(0, 0, 1, 1)
	}
	return geometry.Expand(bounds, 12)
}

// severityByBacking indexes the worst clash severity per backing id.
func severityByBacking(clashes []model.Clash) map[string]model.Severity {
	worst := make(map[string]model.Severity)
	for _, c := range clashes {
		for _, id := range c.Items {
			if c.Severity == model.SeverityError || worst[id] == "" {
				worst[id] = c.Severity
			}
		}
	}
	return worst
}

// renderPlanPage draws the plan view of walls, backings, and zones.
func renderPlanPage(pdf *fpdf.Fpdf, results engine.DetectionResults) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Backing Plan — %d walls, %d zones, %d clashes",
		len(results.Walls), len(results.Zones), len(results.Clashes))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	bounds := planBounds(results)
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom

	scale := math.Min(drawWidth/bounds.Width, drawHeight/bounds.Height)
	offsetX := marginLeft + (drawWidth-bounds.Width*scale)/2
	offsetY := drawAreaTop

	toPage := func(r geometry.Rect) (float64, float64, float64, float64) {
		return offsetX + (r.X-bounds.X)*scale,
			offsetY + (r.Y-bounds.Y)*scale,
			r.Width * scale,
			r.Height * scale
	}

	// Walls first so backings draw on top.
	for _, w := range results.Walls {
		col := colorWall
		if w.Type == model.WallStructural {
			col = colorStructural
		}
		x, y, wd, ht := toPage(w.Rect())
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(60, 60, 60)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x, y, wd, ht, "FD")

		for _, o := range w.Openings {
			ox, oy, ow, oh := toPage(w.OpeningRect(o))
			pdf.SetFillColor(colorOpening.R, colorOpening.G, colorOpening.B)
			pdf.Rect(ox, oy, ow, oh, "F")
		}
	}

	// Zone outlines, dashed.
	pdf.SetDrawColor(colorZone.R, colorZone.G, colorZone.B)
	pdf.SetLineWidth(0.4)
	pdf.SetDashPattern([]float64{1.5, 1.0}, 0)
	for _, z := range results.Zones {
		if len(z.Backings) < 2 {
			continue
		}
		x, y, wd, ht := toPage(geometry.Expand(z.Bounds, 2))
		pdf.Rect(x, y, wd, ht, "D")
	}
	pdf.SetDashPattern([]float64{}, 0)

	// Backings colored by worst clash severity.
	worst := severityByBacking(results.Clashes)
	for _, z := range results.Zones {
		for _, b := range z.Backings {
			col := colorClean
			switch worst[b.ID] {
			case model.SeverityError:
				col = colorError
			case model.SeverityWarning:
				col = colorWarning
			}
			x, y, wd, ht := toPage(b.Rect())
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
			pdf.Rect(x, y, wd, ht, "FD")

			if wd > 12 && ht > 4 {
				pdf.SetFont("Helvetica", "", 6)
				pdf.SetTextColor(0, 0, 0)
				pdf.SetXY(x, y+ht/2-1.5)
				pdf.CellFormat(wd, 3, string(b.BackingType), "", 0, "C", false, 0, "")
			}
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

// renderClashPage lists the detected clashes with their resolutions.
func renderClashPage(pdf *fpdf.Fpdf, clashes []model.Clash) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Detected Clashes", "", 0, "L", false, 0, "")

	y := drawAreaTop
	lineHeight := 5.0

	for _, msg := range engine.FormatClashMessages(clashes) {
		if y > pageHeight-marginBottom-lineHeight {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, lineHeight, msg, "", 0, "L", false, 0, "")
		y += lineHeight
	}
}

// renderSummaryPage draws overall statistics and the material estimate.
func renderSummaryPage(pdf *fpdf.Fpdf, results engine.DetectionResults, estimate model.PurchaseEstimate) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Analysis Summary", "", 0, "L", false, 0, "")

	errors, warnings := 0, 0
	for _, c := range results.Clashes {
		if c.Severity == model.SeverityError {
			errors++
		} else {
			warnings++
		}
	}

	status := "READY FOR INSTALL"
	if !results.ReadyForInstall() {
		status = "BLOCKED — resolve error clashes before sign-off"
	}

	lines := []string{
		fmt.Sprintf("Walls analyzed: %d", len(results.Walls)),
		fmt.Sprintf("Door/window openings: %d", len(results.Doors)),
		fmt.Sprintf("Backing zones: %d", len(results.Zones)),
		fmt.Sprintf("Clashes: %d errors, %d warnings", errors, warnings),
		fmt.Sprintf("Status: %s", status),
		"",
		fmt.Sprintf("Material estimate (%.0f%% waste allowance):", estimate.WastePercent),
	}

	for _, line := range estimate.Lines {
		lines = append(lines, fmt.Sprintf(
			"  %s: %d zones, %.0f linear in, %.1f bf, buy %d sticks",
			line.Material, line.ZoneCount, line.TotalLength, line.BoardFeet, line.SticksNeeded))
	}
	if estimate.TotalCost > 0 {
		lines = append(lines, fmt.Sprintf("  Estimated cost: %.2f", estimate.TotalCost))
	}

	y := drawAreaTop
	for _, line := range lines {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, line, "", 0, "L", false, 0, "")
		y += 6
	}
}
