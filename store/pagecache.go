package store

import (
	"os"
	"time"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrPageNotFound when a page was never cached
var ErrPageNotFound = errors.New("page not found in cache")

// Page is the raw source of a result page that parsed successfully
type Page struct {
	Region    string    `msgpack:"region"`
	ID        int       `msgpack:"id"`
	URL       string    `msgpack:"url"`
	HTML      string    `msgpack:"html"`
	Rows      int       `msgpack:"rows"`
	FetchedAt time.Time `msgpack:"fetched_at"`
}

// PageCache keeps loaded result pages so they can be parsed again without
// hitting the results site
type PageCache struct {
	Store    *badger.DB
	filepath string
}

// NewPageCache for page storage under filepath
func NewPageCache(filepath string) *PageCache {
	return &PageCache{filepath: filepath}
}

// Init the page storage
func (c *PageCache) Init() error {
	var err error

	if err = os.MkdirAll(c.filepath, 0755); err != nil {
		return err
	}

	opts := badger.DefaultOptions(c.filepath).WithLogger(nil)
	c.Store, err = badger.Open(opts)

	if errors.Is(err, badger.ErrTruncateNeeded) {
		log.Warn().Msg("there was a failure re-opening page cache, trying to recover")
		opts.Truncate = true
		c.Store, err = badger.Open(opts)
	}
	return err
}

// Get the cached page of constituency id
func (c *PageCache) Get(region string, id int) (*Page, error) {
	var page *Page
	err := c.Store.View(func(txn *badger.Txn) error {
		item, err := txn.Get(MakeKey(pagePredicate, region, id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			page, err = DecodePage(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrPageNotFound
	}
	return page, err
}

// Put a page, replacing any earlier copy
func (c *PageCache) Put(page *Page) error {
	val, err := EncodePage(page)
	if err != nil {
		return err
	}
	return c.Store.Update(func(txn *badger.Txn) error {
		return txn.Set(MakeKey(pagePredicate, page.Region, page.ID), val)
	})
}

// List the cached pages of a region in constituency order, without their html
func (c *PageCache) List(region string) ([]*Page, error) {
	pages := make([]*Page, 0)
	err := c.Store.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: RegionPrefix(pagePredicate, region), PrefetchValues: true, PrefetchSize: 100})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			page, err := DecodePage(val)
			if err != nil {
				id, _ := GetID(it.Item().KeyCopy(nil))
				return errors.Wrapf(err, "decoding cached page %d", id)
			}
			page.HTML = ""
			pages = append(pages, page)
		}
		return nil
	})
	return pages, err
}

// Close the page cache
func (c *PageCache) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}
