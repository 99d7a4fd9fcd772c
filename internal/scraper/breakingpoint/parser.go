package breakingpoint

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TableSelector locates the stats table body rows
const TableSelector = "table tbody tr"

// ParseHTML converts raw HTML to a goquery Document for parsing
func ParseHTML(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseTable turns every body row of the stats table into a RowResult, in
// table order. Rows are never dropped silently; a row that cannot produce a
// record comes back as a SkippedRow.
func ParseTable(doc *goquery.Document) []RowResult {
	var results []RowResult

	doc.Find(TableSelector).Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < ExpectedCells {
			results = append(results, RowResult{Skipped: &SkippedRow{
				Index:  i,
				Cells:  cells.Length(),
				Reason: ReasonTooFewCells,
			}})
			return
		}

		results = append(results, parseRow(i, cells))
	})

	return results
}

func parseRow(index int, cells *goquery.Selection) RowResult {
	record := &RawStatRecord{}
	for pos, col := range columns {
		col.apply(record, cells.Eq(pos).Text())
	}

	if record.PlayerName == "" {
		return RowResult{Skipped: &SkippedRow{
			Index:  index,
			Cells:  cells.Length(),
			Reason: ReasonMissingName,
		}}
	}

	return RowResult{Record: record}
}
