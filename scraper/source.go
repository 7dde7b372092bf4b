package scraper

import "context"

// LoadedPage is the source of a page after navigation finished
type LoadedPage struct {
	URL  string // landing url, after redirects
	HTML string
}

// PageSource loads result pages, either through a real browser or plain http
type PageSource interface {
	Init(ctx context.Context) error
	Load(ctx context.Context, url string) (*LoadedPage, error)
	Close() error
}
