package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	classifier "github.com/FrenchMajesty/waste-classifier"
)

// CatalogTable writes the waste type table
func CatalogTable(w io.Writer, catalog *classifier.Catalog) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Type", "Confidence", "Recyclable", "Origin", "Tips"})
	table.SetAutoWrapText(false)

	for i, wt := range catalog.Types() {
		table.Append([]string{
			strconv.Itoa(i),
			wt.Type,
			fmt.Sprintf("%d-%d", wt.BaseConfidence, wt.MaxConfidence()),
			yesNo(wt.Recyclable),
			wt.Origin,
			strconv.Itoa(len(wt.Tips)),
		})
	}
	table.Render()
}

// ResultsTable writes one row per classified file
func ResultsTable(w io.Writer, files []ExportFile) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Type", "Confidence", "Recyclable", "Origin"})
	table.SetAutoWrapText(false)

	for _, f := range files {
		table.Append([]string{
			f.Name,
			f.Result.Type,
			fmt.Sprintf("%.1f%%", f.Result.Confidence),
			yesNo(f.Result.Recyclable),
			f.Result.Origin,
		})
	}
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
