package clicmds

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	uuid "github.com/satori/go.uuid"
	"github.com/urfave/cli/v2"
	"gitlab.com/resultscraper/scraper"
	"gitlab.com/resultscraper/store"
)

// ScrapeFlags for the full run
func ScrapeFlags() []cli.Flag {
	return append(ConfigFlags(),
		&cli.IntFlag{
			Name:  "start-from",
			Usage: "first constituency number to consider",
			Value: 1,
		},
	)
}

// Scrape every constituency not yet in the output file
func Scrape(ctx *cli.Context) error {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		return err
	}
	logFile, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	fetcher, cleanup, err := newFetcher(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to create fetcher")
		return err
	}
	defer cleanup()

	runner := scraper.NewRunner(cfg, fetcher, store.NewOutputStore(cfg.Output)).
		SetLogger(log.Logger).
		SetRunID(uuid.NewV4().String())
	if cfg.SplitDir != "" {
		runner.SetExporter(store.NewSplitWriter(cfg.SplitDir))
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			log.Info().Msg("Ctrl-C pressed, stopping")
			cancel()
		case <-runCtx.Done():
		}
	}()

	if err := runner.Init(runCtx); err != nil {
		log.Error().Err(err).Msg("failed to init run")
		fetcher.Close()
		return err
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close fetcher")
		}
	}()

	summary, err := runner.Run(runCtx)
	printSummary(ctx.App.Writer, summary)
	if err != nil {
		log.Error().Err(err).Msg("run stopped")
	}
	return err
}
