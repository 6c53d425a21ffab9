package model

import "math"

// MaterialLine is the purchase estimate for one backing material.
type MaterialLine struct {
	Material      BackingType `json:"material"`
	ZoneCount     int         `json:"zone_count"`
	TotalLength   float64     `json:"total_length"`   // linear inches of blocking required
	TotalArea     float64     `json:"total_area"`     // sq in of material required
	BoardFeet     float64     `json:"board_feet"`     // 1 bf = 144 cubic inches
	SticksNeeded  int         `json:"sticks_needed"`  // stock lengths to purchase
	EstimatedCost float64     `json:"estimated_cost"` // sticks * price, if pricing given
}

// PurchaseEstimate summarizes the material required to install all
// optimized backing zones.
type PurchaseEstimate struct {
	Lines          []MaterialLine `json:"lines"`
	TotalBoardFeet float64        `json:"total_board_feet"`
	TotalCost      float64        `json:"total_cost"`
	WastePercent   float64        `json:"waste_percent"`
}

// cubicInchesPerBoardFoot is the volume of one board foot (12" x 12" x 1").
const cubicInchesPerBoardFoot = 144.0

// CalculatePurchaseEstimate computes how much stock to buy for a set of
// optimized zones. Each zone consumes one continuous run of its material
// spanning the longer extent of the zone bounds, so a zone along a
// vertical wall is costed by its run length, not its footprint width.
// With settings.MinimizeWaste the cuts for a material are pooled across
// zones before rounding up to whole sticks; otherwise each zone buys its
// own sticks. wastePercent adds a cut-waste allowance on top of the
// exact requirement; pricePerStick of 0 disables cost estimation.
func CalculatePurchaseEstimate(zones []BackingZone, settings OptimizeSettings, wastePercent float64, pricePerStick float64) PurchaseEstimate {
	type tally struct {
		zones   int
		lengths []float64
		area    float64
		volume  float64
	}
	tallies := make(map[BackingType]*tally)
	var order []BackingType

	for _, z := range zones {
		spec := SpecFor(z.MaterialType)
		t, ok := tallies[z.MaterialType]
		if !ok {
			t = &tally{}
			tallies[z.MaterialType] = t
			order = append(order, z.MaterialType)
		}
		t.zones++
		t.lengths = append(t.lengths, math.Max(z.Bounds.Width, z.Bounds.Height))
		t.area += z.TotalArea
		t.volume += z.TotalArea * spec.Thickness
	}

	wasteFactor := 1.0 + wastePercent/100.0
	estimate := PurchaseEstimate{WastePercent: wastePercent}

	for _, mat := range order {
		t := tallies[mat]
		spec := SpecFor(mat)

		totalLength := 0.0
		for _, l := range t.lengths {
			totalLength += l
		}

		sticks := 0
		if spec.StockLength > 0 {
			if settings.MinimizeWaste {
				sticks = int(math.Ceil(totalLength * wasteFactor / spec.StockLength))
			} else {
				for _, l := range t.lengths {
					sticks += int(math.Ceil(l * wasteFactor / spec.StockLength))
				}
			}
		}

		line := MaterialLine{
			Material:      mat,
			ZoneCount:     t.zones,
			TotalLength:   totalLength,
			TotalArea:     t.area,
			BoardFeet:     t.volume / cubicInchesPerBoardFoot,
			SticksNeeded:  sticks,
			EstimatedCost: float64(sticks) * pricePerStick,
		}
		estimate.Lines = append(estimate.Lines, line)
		estimate.TotalBoardFeet += line.BoardFeet
		estimate.TotalCost += line.EstimatedCost
	}

	return estimate
}
