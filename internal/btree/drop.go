package btree

import (
	"github.com/spf13/afero"

	"github.com/tuannm99/raptordb/internal/storage"
)

// DropIndex removes the given index files; missing files are ignored.
func DropIndex(fs afero.Fs, paths ...string) error {
	for _, p := range paths {
		if err := storage.SafeRemove(fs, p); err != nil {
			return err
		}
	}
	return nil
}
