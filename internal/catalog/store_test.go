package catalog

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/raptordb/internal/dberr"
	"github.com/tuannm99/raptordb/internal/record"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Users; ": "users",
		"ORDERS;;":  "orders",
		"items":     "items",
		"":          "",
	}
	for in, want := range cases {
		require.Equal(t, want, Normalize(in), in)
	}
}

func newStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewStore(fs, "/db/shop"), fs
}

func usersCols() []record.Column {
	return []record.Column{
		{Name: "ID", Type: record.ColInt, PrimaryKey: true},
		{Name: "name", Type: record.ColStr},
		{Name: "born", Type: record.ColDate},
	}
}

func TestStore_CreateWritesLines(t *testing.T) {
	s, fs := newStore(t)

	sch, err := s.Create("Users;", usersCols())
	require.NoError(t, err)
	require.Equal(t, "users", sch.Table)
	require.Equal(t, "id", sch.Cols[0].Name)

	raw, err := afero.ReadFile(fs, "/db/shop/users.schema")
	require.NoError(t, err)
	require.Equal(t, "id:INT:PK\nname:STR:\nborn:DATE:\n", string(raw))

	loaded, err := s.Load("USERS")
	require.NoError(t, err)
	require.Equal(t, sch, loaded)
}

func TestStore_CreateRejects(t *testing.T) {
	s, fs := newStore(t)

	_, err := s.Create("users", usersCols())
	require.NoError(t, err)

	_, err = s.Create("users", usersCols())
	require.ErrorIs(t, err, dberr.ErrSchema)

	_, err = s.Create("nopk", []record.Column{{Name: "a", Type: record.ColInt}})
	require.ErrorIs(t, err, dberr.ErrConstraint)

	_, err = s.Create("twopk", []record.Column{
		{Name: "a", Type: record.ColInt, PrimaryKey: true},
		{Name: "b", Type: record.ColLong, PrimaryKey: true},
	})
	require.ErrorIs(t, err, dberr.ErrConstraint)

	_, err = s.Create("floaty", []record.Column{{Name: "a", Type: record.ColFloat, PrimaryKey: true}})
	require.ErrorIs(t, err, dberr.ErrConstraint)

	_, err = s.Create("weird", []record.Column{{Name: "a", Type: record.ColumnType(99), PrimaryKey: true}})
	require.ErrorIs(t, err, dberr.ErrSchema)

	for _, name := range []string{"nopk", "twopk", "floaty", "weird"} {
		ok, err := afero.Exists(fs, "/db/shop/"+name+".schema")
		require.NoError(t, err)
		require.False(t, ok, name)
	}
}

func TestStore_LoadErrors(t *testing.T) {
	s, fs := newStore(t)

	_, err := s.Load("ghost")
	require.ErrorIs(t, err, ErrTableNotFound)
	require.ErrorIs(t, err, dberr.ErrSchema)

	require.NoError(t, afero.WriteFile(fs, "/db/shop/bad.schema", []byte("id:INT:PK\nbroken\n"), 0o644))
	_, err = s.Load("bad")
	require.ErrorIs(t, err, dberr.ErrSchema)
	require.Contains(t, err.Error(), "line 2")

	require.NoError(t, afero.WriteFile(fs, "/db/shop/oddtype.schema", []byte("id:BLOB:PK\n"), 0o644))
	_, err = s.Load("oddtype")
	require.ErrorIs(t, err, dberr.ErrSchema)
}

func TestStore_DeleteListExists(t *testing.T) {
	s, _ := newStore(t)

	for _, name := range []string{"users", "orders"} {
		_, err := s.Create(name, usersCols())
		require.NoError(t, err)
	}

	names, err := s.List()
	require.NoError(t, err)
	require.Equal(t, []string{"orders", "users"}, names)

	ok, err := s.Exists("Orders")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Delete("orders"))
	require.NoError(t, s.Delete("orders"))

	ok, err = s.Exists("orders")
	require.NoError(t, err)
	require.False(t, ok)
}
