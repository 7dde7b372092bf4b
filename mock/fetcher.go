package mock

import (
	"context"

	"gitlab.com/resultscraper/results"
)

// Fetcher is a results.Fetcher driven by functions
type Fetcher struct {
	InitFn     func(ctx context.Context) error
	InitCalled bool

	FetchFn    func(ctx context.Context, id int) ([]results.Row, error)
	FetchCalls []int

	CloseFn     func() error
	CloseCalled bool
}

func (f *Fetcher) Init(ctx context.Context) error {
	f.InitCalled = true
	if f.InitFn == nil {
		return nil
	}
	return f.InitFn(ctx)
}

func (f *Fetcher) Fetch(ctx context.Context, id int) ([]results.Row, error) {
	f.FetchCalls = append(f.FetchCalls, id)
	return f.FetchFn(ctx, id)
}

func (f *Fetcher) Close() error {
	f.CloseCalled = true
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

// Fetched returns true if id was requested at least once
func (f *Fetcher) Fetched(id int) bool {
	for _, called := range f.FetchCalls {
		if called == id {
			return true
		}
	}
	return false
}

// MakeFetcher returns candidates rows for every constituency
func MakeFetcher(candidates int) *Fetcher {
	return &Fetcher{
		FetchFn: func(ctx context.Context, id int) ([]results.Row, error) {
			return MakeRows(id, candidates), nil
		},
	}
}

// MakeFailingFetcher fails with a load error for every id in failing
func MakeFailingFetcher(candidates int, failing ...int) *Fetcher {
	fail := make(map[int]struct{}, len(failing))
	for _, id := range failing {
		fail[id] = struct{}{}
	}
	return &Fetcher{
		FetchFn: func(ctx context.Context, id int) ([]results.Row, error) {
			if _, ok := fail[id]; ok {
				return nil, results.NewFetchError(id, results.StageLoad, results.ErrNoTable)
			}
			return MakeRows(id, candidates), nil
		},
	}
}
