package store

import "os"

// SetSyncFile replaces the fsync of temp files, the returned func restores it
func SetSyncFile(fn func(*os.File) error) func() {
	prev := syncFile
	syncFile = fn
	return func() { syncFile = prev }
}
