package eci

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockMarkers = []string{
	"access denied",
	"403 forbidden",
	"request rejected",
	"you don't have permission",
}

// BlockMarkers returns the markers of a block / error page found in page
func BlockMarkers(page string) []string {
	lowered := strings.ToLower(page)
	found := make([]string, 0)
	for _, marker := range blockMarkers {
		if strings.Contains(lowered, marker) {
			found = append(found, marker)
		}
	}
	return found
}

// Report describes a loaded page, used when debugging page loading
type Report struct {
	Title   string
	Name    string
	Length  int
	Tables  []int // row count per table
	Blocked []string
}

// Inspect the page source of constituency id
func Inspect(id int, page string) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, err
	}
	report := &Report{
		Title:   cleanText(doc.Find("title").First().Text()),
		Name:    ConstituencyName(doc, id),
		Length:  len(page),
		Blocked: BlockMarkers(page),
	}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		report.Tables = append(report.Tables, table.Find("tr").Length())
	})
	return report, nil
}
