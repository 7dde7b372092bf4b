// Package eci extracts constituency result rows from election-commission result pages.
package eci

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"gitlab.com/resultscraper/results"
)

// number of td cells in a candidate row:
// S.N., Candidate, Party, EVM Votes, Postal Votes, Total Votes, % of Votes
const rowCells = 7

const constituencyMarker = "Assembly Constituency"

var innerWhitespace = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

// DefaultName is used when the page carries no constituency heading
func DefaultName(id int) string {
	return "Constituency_" + strconv.Itoa(id)
}

// Parse the result page of constituency id. A page with a results table but
// no candidate rows returns an empty slice and no error.
func Parse(id int, page string) ([]results.Row, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, results.NewFetchError(id, results.StageParse, err)
	}

	table := resultTable(doc)
	if table == nil {
		if markers := BlockMarkers(page); len(markers) > 0 {
			return nil, results.NewFetchError(id, results.StageBlocked, errors.Wrap(results.ErrBlocked, strings.Join(markers, ",")))
		}
		return nil, results.NewFetchError(id, results.StageParse, results.ErrNoTable)
	}

	name := ConstituencyName(doc, id)
	rows := make([]results.Row, 0)
	var parseErr error
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			// header row
			return true
		}
		texts := cells.Map(func(_ int, td *goquery.Selection) string {
			return cleanText(td.Text())
		})
		if i == 0 && !isSerial(texts[0]) {
			// header row written with td cells
			return true
		}
		if isTotalRow(texts) {
			return true
		}
		if len(texts) != rowCells {
			parseErr = errors.Wrapf(results.ErrWrongArity, "table row %d has %d cells", i, len(texts))
			return false
		}
		row, err := parseRow(id, name, texts)
		if err != nil {
			parseErr = errors.Wrapf(err, "table row %d", i)
			return false
		}
		rows = append(rows, row)
		return true
	})
	if parseErr != nil {
		return nil, results.NewFetchError(id, results.StageParse, parseErr)
	}
	return rows, nil
}

func resultTable(doc *goquery.Document) *goquery.Selection {
	if table := doc.Find("table.table-striped").First(); table.Length() > 0 {
		return table
	}
	if table := doc.Find("table").First(); table.Length() > 0 {
		return table
	}
	return nil
}

// ConstituencyName from the "Assembly Constituency 195 - AGIAON (Bihar)" heading,
// which becomes "195 - AGIAON".
func ConstituencyName(doc *goquery.Document, id int) string {
	name := DefaultName(id)
	doc.Find("h2").EachWithBreak(func(_ int, h2 *goquery.Selection) bool {
		full := cleanText(h2.Text())
		if !strings.Contains(full, constituencyMarker) {
			return true
		}
		if strings.Contains(full, " - ") {
			full = strings.SplitN(full, "(", 2)[0]
			full = strings.TrimSpace(strings.Replace(full, constituencyMarker, "", 1))
		}
		if full != "" {
			name = full
		}
		return false
	})
	return name
}

// the footer row has no serial number and reads "Total" in the candidate column
func isTotalRow(texts []string) bool {
	return len(texts) > 1 && texts[0] == "" && strings.EqualFold(texts[1], "total")
}

func isSerial(text string) bool {
	_, err := strconv.Atoi(text)
	return err == nil
}

func parseRow(id int, name string, texts []string) (results.Row, error) {
	var err error
	row := results.Row{
		ConstituencyNumber: id,
		ConstituencyName:   name,
		Candidate:          texts[1],
		Party:              texts[2],
	}
	if row.SerialNo, err = strconv.Atoi(texts[0]); err != nil {
		return row, errors.Wrap(err, "serial number")
	}
	if row.EVMVotes, err = parseCount(texts[3]); err != nil {
		return row, errors.Wrap(err, "evm votes")
	}
	if row.PostalVotes, err = parseCount(texts[4]); err != nil {
		return row, errors.Wrap(err, "postal votes")
	}
	if row.TotalVotes, err = parseCount(texts[5]); err != nil {
		return row, errors.Wrap(err, "total votes")
	}
	if row.Percentage, err = parsePercent(texts[6]); err != nil {
		return row, errors.Wrap(err, "percentage")
	}
	return row, nil
}

func parseCount(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	return strconv.ParseFloat(s, 64)
}
