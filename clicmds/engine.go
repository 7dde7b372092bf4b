package clicmds

import (
	"github.com/rs/zerolog/log"
	"gitlab.com/resultscraper/results"
	"gitlab.com/resultscraper/scraper"
	"gitlab.com/resultscraper/scraper/browser"
	"gitlab.com/resultscraper/scraper/httpsource"
	"gitlab.com/resultscraper/store"
)

func newPageSource(cfg *results.Config) scraper.PageSource {
	if cfg.Engine == results.EngineHTTP {
		return httpsource.New(cfg)
	}
	return browser.NewSource(cfg)
}

// newFetcher for the configured engine, with the page cache opened if one is
// configured. cleanup closes the cache, the caller closes the fetcher.
func newFetcher(cfg *results.Config) (*scraper.PageFetcher, func(), error) {
	fetcher, err := scraper.NewPageFetcher(cfg, newPageSource(cfg))
	if err != nil {
		return nil, nil, results.NewSetupError(err, "invalid config")
	}
	if cfg.CacheDir == "" {
		return fetcher, func() {}, nil
	}

	cache := store.NewPageCache(cfg.CacheDir)
	if err := cache.Init(); err != nil {
		return nil, nil, results.NewSetupError(err, "failed to open page cache")
	}
	fetcher.SetCache(cache)
	cleanup := func() {
		if err := cache.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close page cache")
		}
	}
	return fetcher, cleanup, nil
}
