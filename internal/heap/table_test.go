package heap

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/raptordb/internal/dberr"
	"github.com/tuannm99/raptordb/internal/record"
	"github.com/tuannm99/raptordb/internal/storage"
)

func newTestTable(t *testing.T, base string) (*Table, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewTable(storage.LocalFileSet{FS: fs, Dir: "/db/shop", Base: base}), fs
}

func TestTable_AppendReturnsOffsets(t *testing.T) {
	tbl, fs := newTestTable(t, "users")

	r1 := record.Row{"id": "1", "name": "Ann"}
	r2 := record.Row{"id": "2", "name": "Bob"}

	tid1, err := tbl.Append(r1)
	require.NoError(t, err)
	require.Equal(t, TID(0), tid1)

	tid2, err := tbl.Append(r2)
	require.NoError(t, err)
	require.Equal(t, TID(len(record.EncodeRow(r1))+1), tid2)

	got, err := tbl.ReadAt(tid2)
	require.NoError(t, err)
	require.Equal(t, r2, got)

	got, err = tbl.ReadAt(tid1)
	require.NoError(t, err)
	require.Equal(t, r1, got)

	raw, err := afero.ReadFile(fs, "/db/shop/users.data")
	require.NoError(t, err)
	require.Equal(t, record.EncodeRow(r1)+"\n"+record.EncodeRow(r2)+"\n", string(raw))
}

func TestTable_ReadAllMissingFileIsEmpty(t *testing.T) {
	tbl, _ := newTestTable(t, "ghost")
	rows, err := tbl.ReadAll()
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestTable_ScanSkipsBlankLines(t *testing.T) {
	tbl, fs := newTestTable(t, "users")
	line := record.EncodeRow(record.Row{"id": "1"})
	require.NoError(t, fs.MkdirAll("/db/shop", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/db/shop/users.data", []byte("\n"+line+"\n\n"+line), 0o644))

	var tids []TID
	require.NoError(t, tbl.Scan(func(tid TID, row record.Row) bool {
		tids = append(tids, tid)
		require.Equal(t, "1", row["id"])
		return true
	}))
	// the last line has no trailing newline and is still read
	require.Equal(t, []TID{1, TID(len(line) + 3)}, tids)
}

func TestTable_RewriteAndDrop(t *testing.T) {
	tbl, fs := newTestTable(t, "users")
	for i := 0; i < 3; i++ {
		_, err := tbl.Append(record.Row{"id": string(rune('1' + i))})
		require.NoError(t, err)
	}

	require.NoError(t, tbl.Rewrite([]record.Row{{"id": "2"}}))
	rows, err := tbl.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []record.Row{{"id": "2"}}, rows)

	require.NoError(t, tbl.Rewrite(nil))
	rows, err = tbl.ReadAll()
	require.NoError(t, err)
	require.Empty(t, rows)

	require.NoError(t, tbl.Drop())
	ok, err := afero.Exists(fs, "/db/shop/users.data")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, tbl.Drop())
}

func TestTable_ReadAtOutOfRange(t *testing.T) {
	tbl, _ := newTestTable(t, "users")
	_, err := tbl.Append(record.Row{"id": "1"})
	require.NoError(t, err)

	_, err = tbl.ReadAt(10_000)
	require.ErrorIs(t, err, ErrBadTID)
	require.ErrorIs(t, err, dberr.ErrStorage)
}
