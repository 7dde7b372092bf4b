package clicmds

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gitlab.com/resultscraper/results"
)

func newTable(out io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func printRows(out io.Writer, rows []results.Row) {
	if len(rows) == 0 {
		return
	}
	t := newTable(out, rows[0].ConstituencyName)
	t.AppendHeader(table.Row{"S.N.", "Candidate", "Party", "EVM", "Postal", "Total", "%"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.SerialNo,
			row.Candidate,
			row.Party,
			humanize.Comma(row.EVMVotes),
			humanize.Comma(row.PostalVotes),
			humanize.Comma(row.TotalVotes),
			strconv.FormatFloat(row.Percentage, 'f', 2, 64),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	t.Render()
}

func printSummary(out io.Writer, summary *results.Summary) {
	t := newTable(out, "Run "+summary.RunID)
	t.AppendRows([]table.Row{
		{"Persisted", humanize.Comma(int64(summary.Persisted))},
		{"Rows written", humanize.Comma(int64(summary.Rows))},
		{"Skipped", humanize.Comma(int64(summary.Skipped))},
		{"Empty", humanize.Comma(int64(summary.Empty))},
		{"Failed", humanize.Comma(int64(summary.Failed))},
	})
	if len(summary.FailedIDs) > 0 {
		t.AppendRow(table.Row{"Failed constituencies", joinInts(summary.FailedIDs)})
	}
	if summary.Interrupted {
		t.AppendRow(table.Row{"Interrupted", "yes"})
	}
	if !summary.Finished.IsZero() {
		t.AppendRow(table.Row{"Took", summary.Finished.Sub(summary.Started).Round(time.Second).String()})
	}
	t.Render()
}

func printTally(out io.Writer, path string, tally *results.Tally, missing []int) {
	t := newTable(out, path)
	t.AppendRows([]table.Row{
		{"Total records", humanize.Comma(int64(tally.Records))},
		{"Constituencies", humanize.Comma(int64(tally.Constituencies))},
		{"Unique parties", humanize.Comma(int64(len(tally.Parties)))},
		{"Total votes", humanize.Comma(tally.Votes)},
	})
	if len(missing) > 0 {
		t.AppendRow(table.Row{"Missing constituencies", joinInts(missing)})
	}
	t.Render()

	parties := newTable(out, "Parties")
	parties.AppendHeader(table.Row{"Party", "Candidates", "Leading in", "Votes"})
	for _, p := range tally.Parties {
		parties.AppendRow(table.Row{p.Party, p.Candidates, p.Won, humanize.Comma(p.Votes)})
	}
	parties.Render()
}

func joinInts(ids []int) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.Itoa(id)
	}
	return strings.Join(s, ", ")
}
