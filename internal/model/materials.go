package model

// MaterialSpec describes the structural limits and purchasing units for
// a backing material. MaxSpan is the longest unsupported horizontal run
// (inches) the material may bridge before it must sit over a structural
// wall. StockLength is the standard purchase length in inches.
type MaterialSpec struct {
	Type               BackingType `json:"type"`
	Name               string      `json:"name"`
	MaxSpan            float64     `json:"max_span"`
	RequiresStructural bool        `json:"requires_structural"`
	StockLength        float64     `json:"stock_length"`
	Thickness          float64     `json:"thickness"` // nominal installed thickness (in)
}

// MaterialSpecs is the built-in rule table for the structural check and
// the purchase estimator. Span limits are conservative rule-of-thumb
// values for blocking between studs, not an engineering calculation.
var MaterialSpecs = []MaterialSpec{
	{Type: Backing2x4, Name: "2x4 lumber", MaxSpan: 32, RequiresStructural: false, StockLength: 96, Thickness: 1.5},
	{Type: Backing2x6, Name: "2x6 lumber", MaxSpan: 48, RequiresStructural: false, StockLength: 96, Thickness: 1.5},
	{Type: Backing2x8, Name: "2x8 lumber", MaxSpan: 64, RequiresStructural: false, StockLength: 96, Thickness: 1.5},
	{Type: Backing2x10, Name: "2x10 lumber", MaxSpan: 80, RequiresStructural: false, StockLength: 96, Thickness: 1.5},
	{Type: BackingPlywood34, Name: "3/4\" plywood", MaxSpan: 96, RequiresStructural: false, StockLength: 96, Thickness: 0.75},
	{Type: BackingSteel, Name: "Steel plate", MaxSpan: 24, RequiresStructural: true, StockLength: 48, Thickness: 0.25},
}

// SpecFor returns the material spec for a backing type. Unknown types
// get the most restrictive entry so they are never silently waved
// through the structural check.
func SpecFor(t BackingType) MaterialSpec {
	for _, s := range MaterialSpecs {
		if s.Type == t {
			return s
		}
	}
	return MaterialSpec{
		Type:               t,
		Name:               string(t),
		MaxSpan:            24,
		RequiresStructural: true,
		StockLength:        96,
		Thickness:          1.5,
	}
}

// MaterialTypeNames returns the known backing type codes, in table order.
func MaterialTypeNames() []string {
	names := make([]string, 0, len(MaterialSpecs))
	for _, s := range MaterialSpecs {
		names = append(names, string(s.Type))
	}
	return names
}
