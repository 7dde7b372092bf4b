package clicmds

import (
	"context"
	"fmt"
	"io/ioutil"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/resultscraper/eci"
)

// ProbeFlags for loading a single page for diagnostics
func ProbeFlags() []cli.Flag {
	return append(ConfigFlags(),
		&cli.IntFlag{
			Name:    "constituency",
			Aliases: []string{"c"},
			Usage:   "constituency number",
			Value:   1,
		},
		&cli.StringFlag{
			Name:  "save",
			Usage: "save the loaded page source to this file",
		},
	)
}

// Probe loads one result page and reports what the parser would see
func Probe(ctx *cli.Context) error {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		return err
	}
	id := ctx.Int("constituency")
	logFile, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	source := newPageSource(cfg)
	probeCtx := log.Logger.WithContext(context.Background())
	if err := source.Init(probeCtx); err != nil {
		return err
	}
	defer source.Close()

	loadCtx, cancel := context.WithTimeout(probeCtx, cfg.Timeout)
	defer cancel()
	page, err := source.Load(loadCtx, cfg.URL(id))
	if err != nil {
		return err
	}

	report, err := eci.Inspect(id, page.HTML)
	if err != nil {
		return err
	}

	t := newTable(ctx.App.Writer, cfg.URL(id))
	t.AppendRows([]table.Row{
		{"Landed on", page.URL},
		{"Title", report.Title},
		{"Constituency", report.Name},
		{"Page size", humanize.Bytes(uint64(report.Length))},
		{"Tables", len(report.Tables)},
	})
	for i, rows := range report.Tables {
		t.AppendRow(table.Row{fmt.Sprintf("Table %d rows", i+1), rows})
	}
	if len(report.Blocked) > 0 {
		t.AppendRow(table.Row{"Block markers", report.Blocked})
	}
	rows, err := eci.Parse(id, page.HTML)
	if err != nil {
		t.AppendRow(table.Row{"Parse", err.Error()})
	} else {
		t.AppendRow(table.Row{"Candidates", len(rows)})
	}
	t.Render()

	if path := ctx.String("save"); path != "" {
		if err := ioutil.WriteFile(path, []byte(page.HTML), 0644); err != nil {
			return err
		}
		log.Info().Str("file", path).Msg("saved page source")
	}
	return nil
}
