package clicmds

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/resultscraper/results"
	"gitlab.com/resultscraper/store"
)

// PagesFlags for viewing the page cache
func PagesFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "cache-dir",
			Usage:    "page cache directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "state",
			Usage: "state code",
			Value: results.DefaultRegion,
		},
	}
}

// Pages lists the cached result pages
func Pages(ctx *cli.Context) error {
	cache := store.NewPageCache(ctx.String("cache-dir"))
	if err := cache.Init(); err != nil {
		log.Error().Err(err).Msg("failed to init page cache for viewing")
		return err
	}
	defer cache.Close()

	pages, err := cache.List(ctx.String("state"))
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no cached pages found")
	}

	t := newTable(ctx.App.Writer, fmt.Sprintf("%d cached pages", len(pages)))
	t.AppendHeader(table.Row{"Constituency", "Candidates", "Fetched", "URL"})
	for _, page := range pages {
		t.AppendRow(table.Row{page.ID, page.Rows, humanize.Time(page.FetchedAt), page.URL})
	}
	t.Render()
	return nil
}
