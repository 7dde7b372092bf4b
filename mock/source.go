package mock

import (
	"context"
	"io/ioutil"
	"path/filepath"

	"gitlab.com/resultscraper/scraper"
)

// PageSource is a scraper.PageSource driven by functions
type PageSource struct {
	InitFn     func(ctx context.Context) error
	InitCalled bool

	LoadFn    func(ctx context.Context, url string) (*scraper.LoadedPage, error)
	LoadCalls []string

	CloseCalled bool
}

func (p *PageSource) Init(ctx context.Context) error {
	p.InitCalled = true
	if p.InitFn == nil {
		return nil
	}
	return p.InitFn(ctx)
}

func (p *PageSource) Load(ctx context.Context, url string) (*scraper.LoadedPage, error) {
	p.LoadCalls = append(p.LoadCalls, url)
	return p.LoadFn(ctx, url)
}

func (p *PageSource) Close() error {
	p.CloseCalled = true
	return nil
}

// MakeFileSource serves the same file for every url, landing on the requested url
func MakeFileSource(file string) *PageSource {
	return &PageSource{
		LoadFn: func(ctx context.Context, url string) (*scraper.LoadedPage, error) {
			data, err := ioutil.ReadFile(filepath.Clean(file))
			if err != nil {
				return nil, err
			}
			return &scraper.LoadedPage{URL: url, HTML: string(data)}, nil
		},
	}
}
