package render

import (
	"fmt"
	"strings"

	classifier "github.com/FrenchMajesty/waste-classifier"
)

// Band groups confidence values for display
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// ConfidenceBand returns High above 90, Medium above 70, Low otherwise
func ConfidenceBand(confidence float64) Band {
	switch {
	case confidence > 90:
		return BandHigh
	case confidence > 70:
		return BandMedium
	default:
		return BandLow
	}
}

// material is the lower-cased first word of the type label
func material(res classifier.Result) string {
	return strings.ToLower(strings.Split(res.Type, " ")[0])
}

// WhereToRecycle tells the user where the item can be disposed of
func WhereToRecycle(res classifier.Result) string {
	if res.Recyclable {
		return fmt.Sprintf("Most curbside recycling programs accept %s waste. Check local guidelines for specific requirements.", material(res))
	}
	return fmt.Sprintf("%s typically requires special handling. Check with your local waste management authority for proper disposal methods.", res.Type)
}

// EnvironmentalImpact describes the effect of disposing of the item correctly
func EnvironmentalImpact(res classifier.Result) string {
	if res.Recyclable {
		return fmt.Sprintf("When recycled properly, %s materials can significantly reduce landfill waste and conserve natural resources.", material(res))
	}
	return fmt.Sprintf("%s can take hundreds of years to decompose in landfills and may leach harmful substances into soil and water.", res.Type)
}

// RecyclableLabel is the badge text for the result
func RecyclableLabel(res classifier.Result) string {
	if res.Recyclable {
		return "Recyclable"
	}
	return "Non-Recyclable"
}
