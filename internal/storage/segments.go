package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ListByExt scans dir and returns the base names (extension stripped) of the
// regular files ending in ext, sorted.
func ListByExt(fs afero.Fs, dir, ext string) ([]string, error) {
	ents, err := afero.ReadDir(fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ext) {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ext))
	}
	sort.Strings(out)
	return out, nil
}

// RemoveByExt deletes every regular file in dir whose name ends in one of exts.
func RemoveByExt(fs afero.Fs, dir string, exts ...string) error {
	ents, err := afero.ReadDir(fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		for _, ext := range exts {
			if filepath.Ext(e.Name()) == ext {
				if err := SafeRemove(fs, filepath.Join(dir, e.Name())); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}
