package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/BackCheck/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each zone label's QR code.
type LabelInfo struct {
	ZoneID   string  `json:"zone"`
	Material string  `json:"material"`
	Count    int     `json:"backings"`
	X        float64 `json:"x_in"`
	Y        float64 `json:"y_in"`
	Width    float64 `json:"width_in"`
	Height   float64 `json:"height_in"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns,
// 10 rows per page). Each cell is approximately 66.7mm x 25.4mm on US
// Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded installation labels, one per
// backing zone. Each label carries the zone id, material, and bounds;
// the QR payload is the zone metadata as JSON so field crews can pull
// it up by scanning. Labels use the Avery 5160 sheet layout.
func ExportLabels(path string, zones []model.BackingZone) error {
	labels := CollectLabelInfos(zones)
	if len(labels) == 0 {
		return fmt.Errorf("no zones to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.ZoneID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s", info.ZoneID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, info.ZoneID, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	material := fmt.Sprintf("%s, %d backings", info.Material, info.Count)
	pdf.CellFormat(textW, 3.5, material, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	bounds := fmt.Sprintf("%.0f x %.0f in @ (%.0f, %.0f)", info.Width, info.Height, info.X, info.Y)
	pdf.CellFormat(textW, 3, bounds, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label information from the optimized
// zones, for testing or alternative export formats.
func CollectLabelInfos(zones []model.BackingZone) []LabelInfo {
	var labels []LabelInfo
	for _, z := range zones {
		labels = append(labels, LabelInfo{
			ZoneID:   z.ID,
			Material: string(z.MaterialType),
			Count:    len(z.Backings),
			X:        z.Bounds.X,
			Y:        z.Bounds.Y,
			Width:    z.Bounds.Width,
			Height:   z.Bounds.Height,
		})
	}
	return labels
}
