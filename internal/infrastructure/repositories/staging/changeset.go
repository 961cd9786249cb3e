// Package staging collects file rewrites in memory and persists them as one
// all-or-nothing update.
package staging

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
)

const defaultFileMode fs.FileMode = 0o644

type pendingFile struct {
	path     string
	original []byte
	updated  []byte
}

// Changeset holds the staged contents of every file a platform rewrites.
type Changeset struct {
	files []pendingFile
}

// Stage records the new content of path. Files whose content does not change
// are ignored.
func (c *Changeset) Stage(path string, original, updated []byte) {
	if bytes.Equal(original, updated) {
		return
	}
	for i := range c.files {
		if c.files[i].path == path {
			c.files[i].updated = updated
			return
		}
	}
	c.files = append(c.files, pendingFile{path: path, original: original, updated: updated})
}

// Paths returns the staged paths in staging order.
func (c *Changeset) Paths() []string {
	paths := make([]string, 0, len(c.files))
	for _, f := range c.files {
		paths = append(paths, f.path)
	}
	return paths
}

// Empty reports whether nothing is staged.
func (c *Changeset) Empty() bool {
	return len(c.files) == 0
}

// Commit writes every staged file. Each file is replaced atomically; if one
// write fails the files already written are restored to their original content.
func (c *Changeset) Commit() error {
	for i, f := range c.files {
		if err := writeFileAtomic(f.path, f.updated); err != nil {
			rollbackErr := c.rollback(i)
			return errors.Join(fmt.Errorf("%w: %s: %w", entities.ErrWriteFailed, f.path, err), rollbackErr)
		}
	}
	return nil
}

func (c *Changeset) rollback(written int) error {
	var errs []error
	for _, f := range c.files[:written] {
		if err := writeFileAtomic(f.path, f.original); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", f.path, err))
		}
	}
	return errors.Join(errs...)
}

// writeFileAtomic writes data to a temporary sibling of path and renames it
// into place, keeping the permissions of the file it replaces.
func writeFileAtomic(path string, data []byte) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after a successful rename

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, mode); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
