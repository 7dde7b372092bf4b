package clicmds

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/resultscraper/results"
	"gitlab.com/resultscraper/store"
)

// SingleFlags for fetching one constituency
func SingleFlags() []cli.Flag {
	return append(ConfigFlags(),
		&cli.IntFlag{
			Name:     "constituency",
			Aliases:  []string{"c"},
			Usage:    "constituency number",
			Required: true,
		},
	)
}

// Single fetches one constituency and prints it, the output file is not touched
func Single(ctx *cli.Context) error {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		return err
	}
	id := ctx.Int("constituency")
	if !cfg.InRange(id) {
		return errors.Errorf("constituency must be between 1 and %d", cfg.Total)
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	fetcher, cleanup, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	fetchCtx := log.Logger.WithContext(context.Background())
	if err := fetcher.Init(fetchCtx); err != nil {
		return err
	}
	defer fetcher.Close()

	rows, err := fetcher.Fetch(fetchCtx, id)
	if err != nil {
		log.Error().Err(err).Int("constituency", id).Msg("failed to fetch constituency")
		return err
	}
	if len(rows) == 0 {
		log.Warn().Int("constituency", id).Msg("no candidate rows found")
		return nil
	}
	if err := results.ValidateRows(id, rows); err != nil {
		return results.NewFetchError(id, results.StageValidate, err)
	}
	printRows(ctx.App.Writer, rows)

	if cfg.SplitDir != "" {
		path, err := store.NewSplitWriter(cfg.SplitDir).Write(id, rows)
		if err != nil {
			return err
		}
		log.Info().Str("file", path).Int("rows", len(rows)).Msg("saved constituency")
	}
	return nil
}
