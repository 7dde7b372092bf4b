package store

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var syncFile = (*os.File).Sync

// writeFileAtomic replaces path with data. Readers either see the old or the
// new contents, never a mix: temp file in the same dir, fsync, rename, fsync dir.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := ioutil.TempFile(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		tmp.Close()
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Wrap(err, "write temp")
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := syncFile(tmp); err != nil {
		return errors.Wrap(err, "sync temp")
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "rename")
	}
	committed = true
	return syncDir(dir)
}

// removeTempFiles deletes temp files left behind by writes to path that never
// reached the rename
func removeTempFiles(path string) ([]string, error) {
	matches, err := filepath.Glob(path + ".tmp.*")
	if err != nil {
		return nil, err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	return matches, nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
