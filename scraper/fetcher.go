package scraper

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/resultscraper/eci"
	"gitlab.com/resultscraper/results"
	"gitlab.com/resultscraper/store"
)

// ParseFunc turns the source of a result page into rows
type ParseFunc func(id int, page string) ([]results.Row, error)

// PageCache stores pages that parsed successfully
type PageCache interface {
	Get(region string, id int) (*store.Page, error)
	Put(page *store.Page) error
}

// PageFetcher is the results.Fetcher built from a page source, a scope check,
// the page parser and an optional page cache
type PageFetcher struct {
	cfg    *results.Config
	source PageSource
	scope  *ScopeService
	cache  PageCache
	parse  ParseFunc
}

// NewPageFetcher loading pages from source
func NewPageFetcher(cfg *results.Config, source PageSource) (*PageFetcher, error) {
	target, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base url")
	}
	return &PageFetcher{
		cfg:    cfg,
		source: source,
		scope:  NewScopeService(target),
		parse:  eci.Parse,
	}, nil
}

// SetCache enables reading and writing the page cache
func (f *PageFetcher) SetCache(cache PageCache) *PageFetcher {
	f.cache = cache
	return f
}

// SetParser overrides the page parser
func (f *PageFetcher) SetParser(parse ParseFunc) *PageFetcher {
	f.parse = parse
	return f
}

// Scope used for landing urls
func (f *PageFetcher) Scope() *ScopeService {
	return f.scope
}

// Init the page source
func (f *PageFetcher) Init(ctx context.Context) error {
	if err := f.source.Init(ctx); err != nil {
		return results.NewSetupError(err, "failed to start page source")
	}
	return nil
}

// Fetch the rows of constituency id
func (f *PageFetcher) Fetch(ctx context.Context, id int) ([]results.Row, error) {
	if rows, ok := f.fromCache(ctx, id); ok {
		return rows, nil
	}

	address := f.cfg.URL(id)
	log.Ctx(ctx).Info().Int("constituency", id).Str("url", address).Msg("loading results page")

	loadCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()
	page, err := f.source.Load(loadCtx, address)
	if err != nil {
		return nil, results.AsFetch(id, err)
	}

	if scope := f.scope.Check(page.URL); scope != results.InScope {
		return nil, results.NewFetchError(id, results.StageScope, errors.Errorf("landed on %s (%s scope)", page.URL, scope))
	}

	rows, err := f.parse(id, page.HTML)
	if err != nil {
		return nil, results.AsFetch(id, err)
	}

	if f.cache != nil && len(rows) > 0 {
		cached := &store.Page{
			Region:    f.cfg.Region,
			ID:        id,
			URL:       page.URL,
			HTML:      page.HTML,
			Rows:      len(rows),
			FetchedAt: time.Now().UTC(),
		}
		if err := f.cache.Put(cached); err != nil {
			log.Ctx(ctx).Warn().Err(err).Int("constituency", id).Msg("failed to cache page")
		}
	}
	return rows, nil
}

func (f *PageFetcher) fromCache(ctx context.Context, id int) ([]results.Row, bool) {
	if f.cache == nil || f.cfg.Refresh {
		return nil, false
	}

	page, err := f.cache.Get(f.cfg.Region, id)
	if err != nil {
		if err != store.ErrPageNotFound {
			log.Ctx(ctx).Warn().Err(err).Int("constituency", id).Msg("failed to read page cache")
		}
		return nil, false
	}

	rows, err := f.parse(id, page.HTML)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int("constituency", id).Msg("cached page no longer parses, loading again")
		return nil, false
	}
	log.Ctx(ctx).Debug().Int("constituency", id).Time("fetched_at", page.FetchedAt).Msg("using cached page")
	return rows, true
}

// Close the page source
func (f *PageFetcher) Close() error {
	return f.source.Close()
}
