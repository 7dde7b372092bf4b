package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/resultscraper/clicmds"
)

func main() {
	app := cli.NewApp()
	app.Name = "resultscraper"
	app.Version = "0.1"
	app.Usage = "Scrape constituency results into a csv file, resuming where the last run stopped"
	app.Commands = []*cli.Command{
		{
			Name:    "scrape",
			Aliases: []string{"s"},
			Usage:   "scrape every constituency not yet in the output file",
			Action:  clicmds.Scrape,
			Flags:   clicmds.ScrapeFlags(),
		},
		{
			Name:    "single",
			Aliases: []string{"c"},
			Usage:   "fetch and print one constituency",
			Action:  clicmds.Single,
			Flags:   clicmds.SingleFlags(),
		},
		{
			Name:   "probe",
			Usage:  "load one page and print what the parser sees",
			Action: clicmds.Probe,
			Flags:  clicmds.ProbeFlags(),
		},
		{
			Name:   "summary",
			Usage:  "print totals of the output file",
			Action: clicmds.Summary,
			Flags:  clicmds.SummaryFlags(),
		},
		{
			Name:   "pages",
			Usage:  "list the page cache",
			Action: clicmds.Pages,
			Flags:  clicmds.PagesFlags(),
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Msg("failed")
	}
}
