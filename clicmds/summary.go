package clicmds

import (
	"github.com/urfave/cli/v2"
	"gitlab.com/resultscraper/results"
	"gitlab.com/resultscraper/store"
)

// SummaryFlags for reporting on an output file
func SummaryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "output",
			Usage: "csv file to summarize",
			Value: results.DefaultOutput,
		},
		&cli.IntFlag{
			Name:  "total",
			Usage: "number of constituencies expected, lists the missing ones",
			Value: results.DefaultTotal,
		},
	}
}

// Summary prints totals of the output file
func Summary(ctx *cli.Context) error {
	output := store.NewOutputStore(ctx.String("output"))
	if err := output.Init(); err != nil {
		return err
	}
	rows, err := output.Rows()
	if err != nil {
		return err
	}
	tally := results.NewTally(rows)
	printTally(ctx.App.Writer, output.Path(), tally, tally.Missing(ctx.Int("total")))
	return nil
}
