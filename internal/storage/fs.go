package storage

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// OSFS is the production filesystem; tests swap in afero.NewMemMapFs().
func OSFS() afero.Fs { return afero.NewOsFs() }

func dirOf(path string) string { return filepath.Dir(path) }
