package results

import "context"

// Fetcher loads the result rows for one constituency. An empty slice is a valid
// result. Failures are reported as *FetchError, setup problems from Init as
// *SetupError.
type Fetcher interface {
	Init(ctx context.Context) error
	Fetch(ctx context.Context, id int) ([]Row, error)
	Close() error
}
