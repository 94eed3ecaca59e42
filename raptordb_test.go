package raptordb

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) *Engine {
	t.Helper()
	e, err := OpenFS(afero.NewMemMapFs(), "/data", "default_db", 3)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestEngine_Process(t *testing.T) {
	e := openMem(t)

	require.Equal(t, "", e.Process("  ;  "))
	require.Equal(t, "Table 'users' created.", e.Process("CREATE TABLE users (id INT PK, name STR);"))
	require.Equal(t, "1 row inserted.", e.Process(`INSERT INTO users (id,name) VALUES (1,"Ann")`))

	out := e.Process(`INSERT INTO users (id,name) VALUES (1,"Bob")`)
	require.Contains(t, out, "[ConstraintError]")
	require.Contains(t, out, "duplicate key")

	require.Equal(t, "id  name\n1   Ann\n(1 row)", e.Process("SELECT * FROM users WHERE id = 1"))

	require.Contains(t, e.Process("SELECT * FROM nope"), "[SchemaError]")
	require.Contains(t, e.Process("INSERT INTO users VALUES ('x', 'y')"), "[FormatError]")
	require.Contains(t, e.Process("HELLO"), "[ExecutionError]")
}

func TestEngine_ExecAndActiveDatabase(t *testing.T) {
	e := openMem(t)
	require.Equal(t, "default_db", e.ActiveDatabase())

	_, err := e.Exec("CREATE DATABASE shop")
	require.NoError(t, err)
	res, err := e.Exec("USE shop")
	require.NoError(t, err)
	require.Equal(t, "Switched to database 'shop'.", res.Message)
	require.Equal(t, "shop", e.ActiveDatabase())
}
