package store

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/vmihailenco/msgpack/v4"
)

const pagePredicate = "page"

// MakeKey of a predicate, region and constituency id. Ids are zero padded so
// prefix iteration returns pages in constituency order.
func MakeKey(predicate, region string, id int) []byte {
	return []byte(fmt.Sprintf("%s:%s:%04d", predicate, region, id))
}

// RegionPrefix for iterating over every key of a region
func RegionPrefix(predicate, region string) []byte {
	return []byte(predicate + ":" + region + ":")
}

// GetID of key from a pred:region:id key
func GetID(key []byte) (int, error) {
	split := bytes.SplitN(key, []byte(":"), 3)
	if len(split) != 3 {
		return 0, fmt.Errorf("invalid key %q", key)
	}
	return strconv.Atoi(string(split[2]))
}

// EncodePage into msgpack bytes
func EncodePage(page *Page) ([]byte, error) {
	return msgpack.Marshal(page)
}

// DecodePage from msgpack bytes
func DecodePage(val []byte) (*Page, error) {
	page := &Page{}
	if err := msgpack.Unmarshal(val, page); err != nil {
		return nil, err
	}
	return page, nil
}
