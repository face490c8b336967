package classifier

import (
	"fmt"
	"strings"
)

// WasteType describes one material category and its disposal guidance
type WasteType struct {
	// Type is the human-readable material label
	Type string `yaml:"type"`

	// BaseConfidence is the lower bound of the reported confidence (0-100)
	BaseConfidence int `yaml:"base_confidence"`

	// ConfidenceSpread is the width of the confidence perturbation; must be at least 1
	ConfidenceSpread int `yaml:"confidence_spread"`

	Recyclable   bool     `yaml:"recyclable"`
	Origin       string   `yaml:"origin"`
	Instructions string   `yaml:"instructions"`
	Tips         []string `yaml:"tips"`
}

// MaxConfidence returns the highest confidence this record can report
func (w WasteType) MaxConfidence() int {
	return w.BaseConfidence + w.ConfidenceSpread - 1
}

func (w WasteType) clone() WasteType {
	w.Tips = append([]string(nil), w.Tips...)
	return w
}

// Catalog is an ordered, read-only table of waste types. Build one with NewCatalog,
// LoadCatalog or DefaultCatalog; the zero value is an empty catalog.
// A Catalog never changes after construction and is safe for concurrent use.
type Catalog struct {
	types []WasteType
}

// NewCatalog validates the records and returns a catalog holding a private copy of them
func NewCatalog(types []WasteType) (*Catalog, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: no waste types", ErrInvalidCatalog)
	}

	copied := make([]WasteType, len(types))
	for i, wt := range types {
		if err := validateWasteType(wt); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidCatalog, i, err)
		}
		copied[i] = wt.clone()
	}

	return &Catalog{types: copied}, nil
}

func validateWasteType(wt WasteType) error {
	if strings.TrimSpace(wt.Type) == "" {
		return fmt.Errorf("type is empty")
	}
	if wt.BaseConfidence < 0 || wt.BaseConfidence > 100 {
		return fmt.Errorf("%s: base confidence %d outside [0,100]", wt.Type, wt.BaseConfidence)
	}
	if wt.ConfidenceSpread < 1 {
		return fmt.Errorf("%s: confidence spread must be at least 1, got %d", wt.Type, wt.ConfidenceSpread)
	}
	if len(wt.Tips) == 0 {
		return fmt.Errorf("%s: at least one tip is required", wt.Type)
	}
	return nil
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return len(c.types)
}

// At returns a copy of the record at index i
func (c *Catalog) At(i int) WasteType {
	return c.types[i].clone()
}

// Types returns a copy of all records in catalog order
func (c *Catalog) Types() []WasteType {
	out := make([]WasteType, len(c.types))
	for i, wt := range c.types {
		out[i] = wt.clone()
	}
	return out
}

// Select picks the record for seed and the confidence it reports.
// An empty catalog selects nothing and returns index -1.
func (c *Catalog) Select(seed uint32) (int, WasteType, float64) {
	if len(c.types) == 0 {
		return -1, WasteType{}, 0
	}
	idx := int(seed % uint32(len(c.types)))
	wt := c.types[idx]
	confidence := float64(wt.BaseConfidence) + float64(seed%uint32(wt.ConfidenceSpread))
	return idx, wt.clone(), confidence
}

// Evaluate computes the classification for a file without any simulated delay
func (c *Catalog) Evaluate(fileName string, sizeBytes int64) Result {
	seed := HashSeed(SeedInput(fileName, sizeBytes))
	idx, wt, confidence := c.Select(seed)

	return Result{
		Type:         wt.Type,
		Confidence:   confidence,
		Recyclable:   wt.Recyclable,
		Origin:       wt.Origin,
		Instructions: wt.Instructions,
		Tips:         wt.Tips,
		Seed:         seed,
		Index:        idx,
	}
}

// DefaultCatalog returns the built-in waste type table
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

var defaultCatalog = mustCatalog(defaultWasteTypes)

func mustCatalog(types []WasteType) *Catalog {
	c, err := NewCatalog(types)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultWasteTypes = []WasteType{
	{
		Type:             "Plastic Bottle (PET)",
		BaseConfidence:   85,
		ConfidenceSpread: 15,
		Recyclable:       true,
		Origin:           "Household",
		Instructions:     "Remove cap and label, rinse, and place in recycling bin.",
		Tips: []string{
			"PET plastic can be recycled into new bottles, clothing, and more.",
			"Recycling one plastic bottle saves enough energy to power a 60W light bulb for 6 hours.",
			"Consider using a reusable water bottle instead of single-use plastics.",
		},
	},
	{
		Type:             "Cardboard",
		BaseConfidence:   88,
		ConfidenceSpread: 12,
		Recyclable:       true,
		Origin:           "Packaging",
		Instructions:     "Flatten cardboard boxes and remove any tape or labels before recycling.",
		Tips: []string{
			"Cardboard can be recycled up to 7 times before the fibers become too short.",
			"Recycling cardboard uses 75% less energy than making new cardboard.",
			"Keep cardboard dry to maintain its recyclability.",
		},
	},
	{
		Type:             "Glass Bottle",
		BaseConfidence:   91,
		ConfidenceSpread: 9,
		Recyclable:       true,
		Origin:           "Household",
		Instructions:     "Rinse thoroughly and remove caps or corks before recycling.",
		Tips: []string{
			"Glass is 100% recyclable and can be recycled endlessly without loss of quality.",
			"Recycling glass reduces related air pollution by 20% and water pollution by 50%.",
			"Different colored glass needs to be sorted separately for recycling.",
		},
	},
	{
		Type:             "Food Waste",
		BaseConfidence:   87,
		ConfidenceSpread: 13,
		Recyclable:       true,
		Origin:           "Kitchen",
		Instructions:     "Compost food scraps to create nutrient-rich soil for plants.",
		Tips: []string{
			"Food waste in landfills produces methane, a potent greenhouse gas.",
			"Composting food waste can reduce your household waste by up to 30%.",
			"Home composting reduces the need for chemical fertilizers in your garden.",
		},
	},
	{
		Type:             "Aluminum Can",
		BaseConfidence:   93,
		ConfidenceSpread: 7,
		Recyclable:       true,
		Origin:           "Beverage",
		Instructions:     "Rinse cans and crush them (optional) to save space in your recycling bin.",
		Tips: []string{
			"Recycling aluminum saves 95% of the energy needed to make aluminum from raw materials.",
			"An aluminum can can be recycled and back on the shelf in just 60 days.",
			"Aluminum can be recycled infinitely without losing quality.",
		},
	},
	{
		Type:             "Plastic Bag",
		BaseConfidence:   79,
		ConfidenceSpread: 15,
		Recyclable:       false,
		Origin:           "Shopping",
		Instructions:     "Most curbside programs don't accept plastic bags. Return to grocery stores with bag recycling programs.",
		Tips: []string{
			"Plastic bags can take 500-1,000 years to decompose in landfills.",
			"Reusable shopping bags are a more sustainable alternative.",
			"When recycled properly, plastic bags can be made into composite lumber for decking.",
		},
	},
	{
		Type:             "Electronic Waste",
		BaseConfidence:   89,
		ConfidenceSpread: 11,
		Recyclable:       false,
		Origin:           "Consumer Electronics",
		Instructions:     "Take to an e-waste recycling center or retailer with an electronics recycling program.",
		Tips: []string{
			"E-waste contains toxic materials that can leach into soil and water if landfilled.",
			"Many components in electronics can be recovered and reused.",
			"Some retailers offer trade-in programs for old electronics.",
		},
	},
}
