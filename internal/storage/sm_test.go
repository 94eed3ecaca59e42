package storage

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLocalFileSet_PathExistsRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	lfs := LocalFileSet{FS: fs, Dir: "/db/shop", Base: "users"}

	require.Equal(t, filepath.Join("/db/shop", "users.schema"), lfs.Path(".schema"))

	ok, err := lfs.Exists(".schema")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, lfs.EnsureDir())
	require.NoError(t, afero.WriteFile(fs, lfs.Path(".schema"), []byte("id:INT:PK\n"), FileMode0644))

	ok, err = lfs.Exists(".schema")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, lfs.Remove(".schema"))
	// idempotent
	require.NoError(t, lfs.Remove(".schema"))
}

func TestListAndRemoveByExt(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/db/shop"
	for _, name := range []string{"users.schema", "orders.schema", "users.bpt", "orders.bpt64", "users.idx", "wal.log"} {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, name), []byte("x"), FileMode0644))
	}

	names, err := ListByExt(fs, dir, ".schema")
	require.NoError(t, err)
	require.Equal(t, []string{"orders", "users"}, names)

	require.NoError(t, RemoveByExt(fs, dir, ".bpt", ".bpt64", ".idx"))

	left, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)
	var got []string
	for _, e := range left {
		got = append(got, e.Name())
	}
	require.ElementsMatch(t, []string{"users.schema", "orders.schema", "wal.log"}, got)

	// missing dir is fine
	none, err := ListByExt(fs, "/nope", ".schema")
	require.NoError(t, err)
	require.Empty(t, none)
	require.NoError(t, RemoveByExt(fs, "/nope", ".bpt"))
}
