package engine

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/raptordb/internal/dberr"
)

func newSession(t *testing.T) (*Session, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := NewSession(fs, "/data", "")
	require.NoError(t, err)
	return s, fs
}

func TestSession_DefaultDatabase(t *testing.T) {
	s, fs := newSession(t)
	require.Equal(t, DefaultDatabase, s.ActiveDatabase())
	require.Equal(t, "/data/default_db", s.ActivePath())

	ok, err := afero.DirExists(fs, "/data/default_db")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSession_CreateUseDrop(t *testing.T) {
	s, fs := newSession(t)

	name, err := s.CreateDatabase(" Shop; ")
	require.NoError(t, err)
	require.Equal(t, "shop", name)

	_, err = s.CreateDatabase("shop")
	require.ErrorIs(t, err, ErrDatabaseExists)

	_, err = s.UseDatabase("nowhere")
	require.ErrorIs(t, err, ErrDatabaseNotFound)
	require.ErrorIs(t, err, dberr.ErrSchema)

	_, err = s.UseDatabase("SHOP")
	require.NoError(t, err)
	require.Equal(t, "shop", s.ActiveDatabase())

	_, err = s.DropDatabase("shop")
	require.ErrorIs(t, err, ErrDropActive)
	require.ErrorIs(t, err, dberr.ErrExecution)

	_, err = s.UseDatabase(DefaultDatabase)
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "/data/shop/users.bpt", []byte("x"), 0o644))
	_, err = s.DropDatabase("shop")
	require.NoError(t, err)
	ok, _ := afero.DirExists(fs, "/data/shop")
	require.False(t, ok)

	_, err = s.DropDatabase("shop")
	require.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestSession_RejectsPathNames(t *testing.T) {
	s, _ := newSession(t)
	for _, bad := range []string{"", "..", "a/b", `a\b`, ";"} {
		_, err := s.CreateDatabase(bad)
		require.ErrorIs(t, err, dberr.ErrSchema, bad)
	}
}

func TestSession_ListDatabases(t *testing.T) {
	s, _ := newSession(t)
	for _, n := range []string{"b", "a"} {
		_, err := s.CreateDatabase(n)
		require.NoError(t, err)
	}
	names, err := s.ListDatabases()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "default_db"}, names)
}
