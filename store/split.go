package store

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"gitlab.com/resultscraper/results"
)

var nameReplacer = strings.NewReplacer(" ", "_", "/", "-", "\\", "-")

// SplitFileName for a constituency, for example 001_Name.csv
func SplitFileName(id int, name string) string {
	return fmt.Sprintf("%03d_%s.csv", id, nameReplacer.Replace(name))
}

// SplitWriter writes one csv file per constituency next to the combined table
type SplitWriter struct {
	dir string
}

// NewSplitWriter writing into dir
func NewSplitWriter(dir string) *SplitWriter {
	return &SplitWriter{dir: dir}
}

// Write the rows of constituency id, returns the file written
func (w *SplitWriter) Write(id int, rows []results.Row) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	path := filepath.Join(w.dir, SplitFileName(id, rows[0].ConstituencyName))

	buf := &bytes.Buffer{}
	if err := gocsv.Marshal(rows, buf); err != nil {
		return "", errors.Wrap(err, "encoding rows")
	}
	if err := writeFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return "", &results.PersistenceError{Path: path, Err: err}
	}
	return path, nil
}
