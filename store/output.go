package store

import (
	"bufio"
	"bytes"
	"io/ioutil"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/resultscraper/results"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// completedRow only needs the constituency column, so files written by other
// tools with extra or loosely typed columns can still be resumed from
type completedRow struct {
	Number int `csv:"Constituency_Number"`
}

// OutputStore is the append only csv table of result rows. It is the single
// source of truth for which constituencies are complete.
type OutputStore struct {
	path string
}

// NewOutputStore for the csv file at path
func NewOutputStore(path string) *OutputStore {
	return &OutputStore{path: path}
}

// Path of the csv file
func (s *OutputStore) Path() string {
	return s.path
}

// Init removes temp files of interrupted appends and checks an existing file
// has the expected header. A missing or empty file is fine and gets the header
// on the first append.
func (s *OutputStore) Init() error {
	stale, err := removeTempFiles(s.path)
	if err != nil {
		return s.wrap(errors.Wrap(err, "removing temp files"))
	}
	if len(stale) > 0 {
		log.Warn().Str("output", s.path).Strs("files", stale).Msg("removed temp files of interrupted appends")
	}

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return s.wrap(err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if line == "" && err != nil {
		// empty file
		return nil
	}
	line = strings.TrimRight(strings.TrimPrefix(line, string(utf8BOM)), "\r\n")
	expected := strings.Join(results.Header, ",")
	if line != expected {
		return s.wrap(errors.Wrapf(results.ErrBadHeader, "got %q", line))
	}
	return nil
}

func (s *OutputStore) wrap(err error) error {
	return &results.PersistenceError{Path: s.path, Err: err}
}

func (s *OutputStore) read() ([]byte, error) {
	data, err := ioutil.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

// Completed returns the constituency numbers with at least one row
func (s *OutputStore) Completed() (map[int]struct{}, error) {
	done := make(map[int]struct{})
	data, err := s.read()
	if err != nil {
		return nil, s.wrap(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return done, nil
	}

	rows := make([]*completedRow, 0)
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, s.wrap(errors.Wrap(err, "reading completed constituencies"))
	}
	for _, row := range rows {
		done[row.Number] = struct{}{}
	}
	log.Debug().Str("output", s.path).Int("rows", len(rows)).Int("constituencies", len(done)).Msg("read output store")
	return done, nil
}

// Append all rows as one batch. After a crash the file holds either every
// row of the batch or none of them.
func (s *OutputStore) Append(rows []results.Row) error {
	if len(rows) == 0 {
		return nil
	}

	existing, err := s.read()
	if err != nil {
		return s.wrap(err)
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(existing)+len(rows)*128))
	buf.Write(existing)
	if len(bytes.TrimSpace(existing)) == 0 {
		buf.Reset()
		err = gocsv.Marshal(rows, buf)
	} else {
		if existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
		err = gocsv.MarshalWithoutHeaders(rows, buf)
	}
	if err != nil {
		return s.wrap(errors.Wrap(err, "encoding rows"))
	}

	if err := writeFileAtomic(s.path, buf.Bytes(), 0644); err != nil {
		return s.wrap(err)
	}
	return nil
}

// Rows returns every row in the store
func (s *OutputStore) Rows() ([]*results.Row, error) {
	rows := make([]*results.Row, 0)
	data, err := s.read()
	if err != nil {
		return nil, s.wrap(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return rows, nil
	}
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, s.wrap(errors.Wrap(err, "reading rows"))
	}
	return rows, nil
}
