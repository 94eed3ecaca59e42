package storage

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// LocalFileSet names the artifacts that share a directory and a base name,
// e.g. <Dir>/<Base>.schema, <Dir>/<Base>.data, <Dir>/<Base>.bpt.
type LocalFileSet struct {
	FS   afero.Fs
	Dir  string
	Base string
}

// Path returns the artifact path with the given extension (".data", ...).
func (lfs LocalFileSet) Path(ext string) string {
	return filepath.Join(lfs.Dir, lfs.Base+ext)
}

// EnsureDir creates the directory (and parents) if missing.
func (lfs LocalFileSet) EnsureDir() error {
	return lfs.FS.MkdirAll(lfs.Dir, FileMode0755)
}

// Exists reports whether the artifact with ext is present.
func (lfs LocalFileSet) Exists(ext string) (bool, error) {
	return afero.Exists(lfs.FS, lfs.Path(ext))
}

// Remove deletes the artifact with ext; a missing file is not an error.
func (lfs LocalFileSet) Remove(ext string) error {
	return SafeRemove(lfs.FS, lfs.Path(ext))
}

// SafeRemove deletes path, ignoring "does not exist".
func SafeRemove(fs afero.Fs, path string) error {
	if err := fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
