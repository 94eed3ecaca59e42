package wal

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)
	return func() time.Time { return ts }
}

func TestManager_LogFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := Open(fs, "/db/shop").WithClock(fixedClock())

	require.NoError(t, m.Log(ActionInsert, "users", "1"))
	require.NoError(t, m.Log(ActionUpdate, "users", "name=a|b"))
	require.NoError(t, m.LogDropTable("users"))
	require.NoError(t, m.LogDropDatabase("old"))

	raw, err := afero.ReadFile(fs, "/db/shop/wal.log")
	require.NoError(t, err)
	require.Equal(t,
		"2025-01-02T03:04:05|INSERT|users|1\n"+
			"2025-01-02T03:04:05|UPDATE|users|name=a|b\n"+
			"2025-01-02T03:04:05|DROP_TABLE|users|TABLE REMOVED\n"+
			"2025-01-02T03:04:05|DROP_DATABASE|old|DATABASE REMOVED\n",
		string(raw))

	entries, err := m.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	require.Equal(t, ActionUpdate, entries[1].Action)
	require.Equal(t, "name=a|b", entries[1].Details)
	require.True(t, entries[0].Time.Equal(fixedClock()()))
}

func TestManager_MultiLineDetailsStayOneRecord(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := Open(fs, "/db/shop").WithClock(fixedClock())

	details := "name='line1\nline2\r\nend',path=C:\\tmp\\n"
	require.NoError(t, m.Log(ActionUpdate, "users", details))
	require.NoError(t, m.Log(ActionDelete, "users", "ALL"))

	raw, err := afero.ReadFile(fs, "/db/shop/wal.log")
	require.NoError(t, err)
	require.Equal(t,
		`2025-01-02T03:04:05|UPDATE|users|name='line1\nline2\r\nend',path=C:\\tmp\\n`+"\n"+
			"2025-01-02T03:04:05|DELETE|users|ALL\n",
		string(raw))

	entries, err := m.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, details, entries[0].Details)
	require.Equal(t, "ALL", entries[1].Details)
}

func TestManager_EntriesMissingAndBad(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := Open(fs, "/db/empty")

	entries, err := m.Entries()
	require.NoError(t, err)
	require.Empty(t, entries)

	require.NoError(t, afero.WriteFile(fs, "/db/empty/wal.log", []byte("garbage\n"), 0o644))
	_, err = m.Entries()
	require.ErrorIs(t, err, ErrBadRecord)
}
