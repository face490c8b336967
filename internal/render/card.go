package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	classifier "github.com/FrenchMajesty/waste-classifier"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	bandColors = map[Band]lipgloss.Color{
		BandHigh:   lipgloss.Color("42"),
		BandMedium: lipgloss.Color("220"),
		BandLow:    lipgloss.Color("208"),
	}
)

const meterWidth = 20

// Card renders a classification result for the terminal
func Card(res classifier.Result) string {
	badgeColor := lipgloss.Color("42")
	if !res.Recyclable {
		badgeColor = lipgloss.Color("208")
	}
	badge := lipgloss.NewStyle().Foreground(badgeColor).Render("● " + RecyclableLabel(res))

	header := lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render(res.Type), "  ", badge)

	sections := []string{
		header,
		confidenceLine(res.Confidence),
		"",
		headingStyle.Render("Recycling Instructions"),
		res.Instructions,
		"",
		headingStyle.Render("Where to Recycle"),
		WhereToRecycle(res),
		"",
		headingStyle.Render("Material Origin"),
		res.Origin,
		"",
		headingStyle.Render("Environmental Impact"),
		EnvironmentalImpact(res),
		"",
		headingStyle.Render("Tips"),
	}
	for i, tip := range res.Tips {
		sections = append(sections, fmt.Sprintf("%d. %s", i+1, tip))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func confidenceLine(confidence float64) string {
	filled := int(confidence / 100 * meterWidth)
	filled = max(0, min(filled, meterWidth))

	meter := lipgloss.NewStyle().Foreground(bandColors[ConfidenceBand(confidence)]).
		Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", meterWidth-filled))

	return fmt.Sprintf("Confidence: %s %.1f%%", meter, confidence)
}
