package store_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"gitlab.com/resultscraper/results"
	"gitlab.com/resultscraper/store"
)

func testDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "resultstore")
	if err != nil {
		t.Fatalf("error creating temp dir: %s\n", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func testMakeRows(id, count int) []results.Row {
	rows := make([]results.Row, count)
	for i := 0; i < count; i++ {
		rows[i] = results.Row{
			ConstituencyNumber: id,
			ConstituencyName:   "Test Constituency",
			SerialNo:           i + 1,
			Candidate:          "Candidate " + string(rune('A'+i)),
			Party:              "Independent",
			EVMVotes:           int64(1000 * (i + 1)),
			PostalVotes:        int64(10 * (i + 1)),
			TotalVotes:         int64(1010 * (i + 1)),
			Percentage:         12.5,
		}
	}
	return rows
}

func TestOutputStoreAppend(t *testing.T) {
	path := filepath.Join(testDir(t), "results.csv")
	s := store.NewOutputStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("error init store: %s\n", err)
	}

	done, err := s.Completed()
	if err != nil {
		t.Fatalf("error reading completed: %s\n", err)
	}
	if len(done) != 0 {
		t.Fatalf("expected no completed constituencies got %d\n", len(done))
	}

	first := testMakeRows(1, 3)
	second := testMakeRows(2, 2)
	if err := s.Append(first); err != nil {
		t.Fatalf("error appending: %s\n", err)
	}
	if err := s.Append(second); err != nil {
		t.Fatalf("error appending: %s\n", err)
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("error reading output: %s\n", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header + 5 rows got %d lines\n", len(lines))
	}
	if lines[0] != strings.Join(results.Header, ",") {
		t.Fatalf("unexpected header %q\n", lines[0])
	}
	for _, line := range lines[1:] {
		if fields := strings.Split(line, ","); len(fields) != len(results.Header) {
			t.Fatalf("expected %d fields got %d in %q\n", len(results.Header), len(fields), line)
		}
	}

	// reopen, like a restart would
	s = store.NewOutputStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("error re-init store: %s\n", err)
	}
	done, err = s.Completed()
	if err != nil {
		t.Fatalf("error reading completed: %s\n", err)
	}
	if _, ok := done[1]; !ok || len(done) != 2 {
		t.Fatalf("expected constituencies 1 and 2 got %v\n", done)
	}

	rows, err := s.Rows()
	if err != nil {
		t.Fatalf("error reading rows: %s\n", err)
	}
	got := make([]results.Row, len(rows))
	for i, row := range rows {
		got[i] = *row
	}
	if diff := cmp.Diff(append(first, second...), got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestOutputStoreAppendEmpty(t *testing.T) {
	path := filepath.Join(testDir(t), "results.csv")
	s := store.NewOutputStore(path)
	if err := s.Append(nil); err != nil {
		t.Fatalf("error appending nothing: %s\n", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file to be created\n")
	}
}

func TestOutputStoreBadHeader(t *testing.T) {
	path := filepath.Join(testDir(t), "results.csv")
	if err := ioutil.WriteFile(path, []byte("Candidate,Party,Votes\nA,B,1\n"), 0644); err != nil {
		t.Fatalf("error writing file: %s\n", err)
	}

	err := store.NewOutputStore(path).Init()
	if err == nil {
		t.Fatalf("expected header mismatch error\n")
	}
	if !results.IsPersistence(err) {
		t.Fatalf("expected persistence error got %T\n", err)
	}
}

func TestOutputStoreNoTempFilesLeft(t *testing.T) {
	dir := testDir(t)
	s := store.NewOutputStore(filepath.Join(dir, "results.csv"))
	for i := 1; i < 5; i++ {
		if err := s.Append(testMakeRows(i, 2)); err != nil {
			t.Fatalf("error appending: %s\n", err)
		}
	}
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		t.Fatalf("error listing dir: %s\n", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected only the output file got %d files\n", len(files))
	}
}

func TestOutputStoreMissingTrailingNewline(t *testing.T) {
	path := filepath.Join(testDir(t), "results.csv")
	content := strings.Join(results.Header, ",") + "\n" +
		"9,Other,1,X,Y,1,0,1,100"
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("error writing file: %s\n", err)
	}

	s := store.NewOutputStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("error init store: %s\n", err)
	}
	if err := s.Append(testMakeRows(3, 1)); err != nil {
		t.Fatalf("error appending: %s\n", err)
	}
	done, err := s.Completed()
	if err != nil {
		t.Fatalf("error reading completed: %s\n", err)
	}
	if len(done) != 2 {
		t.Fatalf("expected 2 completed got %v\n", done)
	}
}

func TestOutputStoreKilledBeforeRename(t *testing.T) {
	dir := testDir(t)
	path := filepath.Join(dir, "results.csv")
	s := store.NewOutputStore(path)
	if err := s.Append(testMakeRows(1, 2)); err != nil {
		t.Fatalf("error appending: %s\n", err)
	}
	before, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("error reading output: %s\n", err)
	}

	// a process killed between write and rename leaves a partial temp file
	partial := string(before) + "2,Test Constituency,1,Candidate A,Indep"
	tmp := path + ".tmp.123456"
	if err := ioutil.WriteFile(tmp, []byte(partial), 0644); err != nil {
		t.Fatalf("error writing temp file: %s\n", err)
	}

	s = store.NewOutputStore(path)
	done, err := s.Completed()
	if err != nil {
		t.Fatalf("error reading completed: %s\n", err)
	}
	if _, ok := done[2]; ok || len(done) != 1 {
		t.Fatalf("partial batch must not count as completed got %v\n", done)
	}

	if err := s.Init(); err != nil {
		t.Fatalf("error init store: %s\n", err)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Fatalf("expected stale temp file to be removed\n")
	}
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		t.Fatalf("error listing dir: %s\n", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected only the output file got %d files\n", len(files))
	}
}

func TestOutputStoreFailedAppendKeepsContents(t *testing.T) {
	dir := testDir(t)
	path := filepath.Join(dir, "results.csv")
	s := store.NewOutputStore(path)
	if err := s.Append(testMakeRows(1, 3)); err != nil {
		t.Fatalf("error appending: %s\n", err)
	}
	before, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("error reading output: %s\n", err)
	}

	restore := store.SetSyncFile(func(f *os.File) error {
		return errors.New("input/output error")
	})
	err = s.Append(testMakeRows(2, 3))
	restore()
	if !results.IsPersistence(err) {
		t.Fatalf("expected persistence error got %v\n", err)
	}

	after, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("error reading output: %s\n", err)
	}
	if diff := cmp.Diff(string(before), string(after)); diff != "" {
		t.Fatalf("failed append changed the output (-want +got):\n%s", diff)
	}
	done, err := s.Completed()
	if err != nil {
		t.Fatalf("error reading completed: %s\n", err)
	}
	if _, ok := done[2]; ok {
		t.Fatalf("failed batch must not count as completed\n")
	}
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		t.Fatalf("error listing dir: %s\n", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected the temp file to be cleaned up got %d files\n", len(files))
	}
}
