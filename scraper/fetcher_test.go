package scraper_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"gitlab.com/resultscraper/mock"
	"gitlab.com/resultscraper/results"
	"gitlab.com/resultscraper/scraper"
	"gitlab.com/resultscraper/store"
)

const testPage = "../eci/testdata/constituency_195.htm"

func testCache(t *testing.T) *store.PageCache {
	cache := store.NewPageCache(filepath.Join(testDir(t), "pages"))
	if err := cache.Init(); err != nil {
		t.Fatalf("error init page cache: %s\n", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestPageFetcher(t *testing.T) {
	cfg := mock.Config("out.csv")
	source := mock.MakeFileSource(testPage)

	f, err := scraper.NewPageFetcher(cfg, source)
	if err != nil {
		t.Fatalf("error creating fetcher: %s\n", err)
	}
	if err := f.Init(context.Background()); err != nil {
		t.Fatalf("error init fetcher: %s\n", err)
	}
	defer f.Close()

	rows, err := f.Fetch(context.Background(), 195)
	if err != nil {
		t.Fatalf("error fetching: %s\n", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows got %d\n", len(rows))
	}
	if source.LoadCalls[0] != cfg.URL(195) {
		t.Fatalf("expected %s to be loaded got %s\n", cfg.URL(195), source.LoadCalls[0])
	}
}

func TestPageFetcherCache(t *testing.T) {
	cfg := mock.Config("out.csv")
	cache := testCache(t)
	source := mock.MakeFileSource(testPage)

	f, err := scraper.NewPageFetcher(cfg, source)
	if err != nil {
		t.Fatalf("error creating fetcher: %s\n", err)
	}
	f.SetCache(cache)

	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), 195); err != nil {
			t.Fatalf("error fetching: %s\n", err)
		}
	}
	if len(source.LoadCalls) != 1 {
		t.Fatalf("second fetch should read from cache, loaded %d times\n", len(source.LoadCalls))
	}

	page, err := cache.Get(cfg.Region, 195)
	if err != nil {
		t.Fatalf("error reading cached page: %s\n", err)
	}
	if page.Rows != 3 || page.URL != cfg.URL(195) {
		t.Fatalf("unexpected cached page %d rows from %s\n", page.Rows, page.URL)
	}

	cfg.Refresh = true
	if _, err := f.Fetch(context.Background(), 195); err != nil {
		t.Fatalf("error fetching: %s\n", err)
	}
	if len(source.LoadCalls) != 2 {
		t.Fatalf("refresh should load again, loaded %d times\n", len(source.LoadCalls))
	}
}

func TestPageFetcherEmptyNotCached(t *testing.T) {
	cfg := mock.Config("out.csv")
	cache := testCache(t)

	f, err := scraper.NewPageFetcher(cfg, mock.MakeFileSource("../eci/testdata/empty_table.htm"))
	if err != nil {
		t.Fatalf("error creating fetcher: %s\n", err)
	}
	f.SetCache(cache)

	rows, err := f.Fetch(context.Background(), 12)
	if err != nil {
		t.Fatalf("error fetching: %s\n", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows got %d\n", len(rows))
	}
	if _, err := cache.Get(cfg.Region, 12); err != store.ErrPageNotFound {
		t.Fatalf("empty pages should not be cached, got %v\n", err)
	}
}

func TestPageFetcherErrors(t *testing.T) {
	cfg := mock.Config("out.csv")

	var inputs = []struct {
		name   string
		source *mock.PageSource
		stage  string
		cause  error
	}{
		{
			"wrong arity",
			mock.MakeFileSource("../eci/testdata/wrong_arity.htm"),
			results.StageParse,
			results.ErrWrongArity,
		},
		{
			"blocked",
			mock.MakeFileSource("../eci/testdata/blocked.htm"),
			results.StageBlocked,
			results.ErrBlocked,
		},
		{
			"redirected",
			&mock.PageSource{
				LoadFn: func(ctx context.Context, url string) (*scraper.LoadedPage, error) {
					return &scraper.LoadedPage{URL: "https://captcha.example.com/challenge", HTML: "<html></html>"}, nil
				},
			},
			results.StageScope,
			nil,
		},
		{
			"load",
			&mock.PageSource{
				LoadFn: func(ctx context.Context, url string) (*scraper.LoadedPage, error) {
					return nil, errors.New("net::ERR_CONNECTION_RESET")
				},
			},
			results.StageLoad,
			nil,
		},
	}

	for _, in := range inputs {
		f, err := scraper.NewPageFetcher(cfg, in.source)
		if err != nil {
			t.Fatalf("error creating fetcher: %s\n", err)
		}
		_, err = f.Fetch(context.Background(), 9)
		var fetchErr *results.FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("%s: expected fetch error got %v\n", in.name, err)
		}
		if fetchErr.ID != 9 || fetchErr.Stage != in.stage {
			t.Fatalf("%s: expected stage %s for 9 got %s for %d\n", in.name, in.stage, fetchErr.Stage, fetchErr.ID)
		}
		if in.cause != nil && !errors.Is(err, in.cause) {
			t.Fatalf("%s: expected %v got %v\n", in.name, in.cause, err)
		}
	}
}

func TestPageFetcherSetupError(t *testing.T) {
	source := mock.MakeFileSource(testPage)
	source.InitFn = func(ctx context.Context) error {
		return errors.New("no chrome")
	}
	f, err := scraper.NewPageFetcher(mock.Config("out.csv"), source)
	if err != nil {
		t.Fatalf("error creating fetcher: %s\n", err)
	}
	if err := f.Init(context.Background()); !results.IsSetup(err) {
		t.Fatalf("expected setup error got %v\n", err)
	}
}
