// Package storage provides the profile directory handling for the
// browser's user data.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Dir is the directory a browser stores its user data in. It is either
// ephemeral, created fresh for a single launch and removed by Cleanup,
// or persistent, surviving across launches and never removed.
type Dir struct {
	Dir    string // path to the data storage directory
	remove bool   // whether to remove the temporary directory in cleanup

	cleanupOnce sync.Once
	// FS operations are indirected so tests can fail or observe them.
	fsMkdirTemp func(dir, pattern string) (string, error)
	fsRemoveAll func(path string) error
}

// Make creates the user data directory.
//
// In ephemeral mode it creates a uniquely named directory under tmpDir
// (or the OS default temp dir when tmpDir is empty), which Cleanup will
// remove. Otherwise it resolves the user cache root, appends name and
// creates the directory tree if it doesn't exist yet; such a directory
// persists across launches and is never removed by Cleanup.
func (d *Dir) Make(tmpDir string, ephemeral bool, name string) error {
	if d.fsMkdirTemp == nil {
		d.fsMkdirTemp = os.MkdirTemp
	}
	if d.fsRemoveAll == nil {
		d.fsRemoveAll = os.RemoveAll
	}

	if ephemeral {
		var err error
		if d.Dir, err = d.fsMkdirTemp(tmpDir, "web-intel-*"); err != nil {
			return fmt.Errorf("making ephemeral user data directory: %w", err)
		}
		d.remove = true
		return nil
	}

	cache, err := os.UserCacheDir()
	if err != nil {
		return fmt.Errorf("determining user cache directory: %w", err)
	}
	d.Dir = filepath.Join(cache, name)
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("making user data directory %q: %w", d.Dir, err)
	}
	return nil
}

// Cleanup removes the directory if it was created in ephemeral mode.
// It is a no-op for persistent directories and runs at most once, so a
// second call after a successful removal cannot touch a path that may
// have been reused.
func (d *Dir) Cleanup() error {
	if !d.remove {
		return nil
	}
	var err error
	d.cleanupOnce.Do(func() {
		err = d.fsRemoveAll(d.Dir)
	})
	if err != nil {
		return fmt.Errorf("cleaning up user data directory %q: %w", d.Dir, err)
	}
	return nil
}
