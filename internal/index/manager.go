package index

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/tuannm99/raptordb/internal/alias/util"
	"github.com/tuannm99/raptordb/internal/btree"
	"github.com/tuannm99/raptordb/internal/record"
	"github.com/tuannm99/raptordb/internal/storage"
)

// Manager owns the primary-key index files of one database directory.
// An INT key lives in <table>.bpt; LONG, STR, DATE and DATETIME keys live in
// <table>.bpt64. Every insert is also appended as key=offset to <table>.idx.
type Manager struct {
	fs     afero.Fs
	dir    string
	degree int
}

func NewManager(fs afero.Fs, dir string, degree int) *Manager {
	if degree < 2 {
		degree = btree.DefaultDegree
	}
	return &Manager{fs: fs, dir: dir, degree: degree}
}

func (m *Manager) files(table string) storage.LocalFileSet {
	return storage.LocalFileSet{FS: m.fs, Dir: m.dir, Base: table}
}

// Path returns the index file used for table's primary key.
func (m *Manager) Path(table string, pk record.Column) string {
	return m.files(table).Path(FileExt(pk.Type))
}

// Lookup reports whether value is indexed and at which heap offset. A missing
// index file or a value that cannot be turned into a key is "not found".
func (m *Manager) Lookup(table string, pk record.Column, value string) (int64, bool, error) {
	path := m.Path(table, pk)
	ok, err := afero.Exists(m.fs, path)
	if err != nil || !ok {
		return 0, false, err
	}

	if pk.Type == record.ColInt {
		k, err := int32Key(value)
		if err != nil {
			return 0, false, nil
		}
		tr, err := btree.Open[int32](m.fs, path, btree.Int32Codec{}, m.degree)
		if err != nil {
			return 0, false, err
		}
		return tr.Find(k)
	}

	k, err := int64Key(pk.Type, value)
	if err != nil {
		return 0, false, nil
	}
	tr, err := btree.Open[int64](m.fs, path, btree.Int64Codec{}, m.degree)
	if err != nil {
		return 0, false, err
	}
	return tr.Find(k)
}

// Add indexes value -> offset. A duplicate is btree.ErrDuplicateKey; a value
// that is not a valid key is a format error.
func (m *Manager) Add(table string, pk record.Column, value string, offset int64) error {
	path := m.Path(table, pk)

	if pk.Type == record.ColInt {
		k, err := int32Key(value)
		if err != nil {
			return err
		}
		tr, err := btree.Open[int32](m.fs, path, btree.Int32Codec{}, m.degree)
		if err != nil {
			return err
		}
		if err := tr.Insert(k, offset); err != nil {
			return err
		}
	} else {
		k, err := int64Key(pk.Type, value)
		if err != nil {
			return err
		}
		tr, err := btree.Open[int64](m.fs, path, btree.Int64Codec{}, m.degree)
		if err != nil {
			return err
		}
		if err := tr.Insert(k, offset); err != nil {
			return err
		}
	}

	if err := m.appendBackup(table, value, offset); err != nil {
		slog.Warn("index.backup_failed", "table", table, "key", value, "err", err)
	}
	return nil
}

func (m *Manager) appendBackup(table, value string, offset int64) error {
	f, err := m.fs.OpenFile(m.files(table).Path(BackupExt), os.O_CREATE|os.O_WRONLY|os.O_APPEND, storage.FileMode0644)
	if err != nil {
		return err
	}
	defer util.CloseFunc(f)
	_, err = fmt.Fprintf(f, "%s=%d\n", value, offset)
	return err
}

// Entry is one (key, heap offset) pair read from an index.
type Entry struct {
	Key    int64
	Offset int64
}

// Scan returns every entry of table's index in ascending key order.
func (m *Manager) Scan(table string, pk record.Column) ([]Entry, error) {
	path := m.Path(table, pk)
	ok, err := afero.Exists(m.fs, path)
	if err != nil || !ok {
		return nil, err
	}

	var out []Entry
	if pk.Type == record.ColInt {
		tr, err := btree.Open[int32](m.fs, path, btree.Int32Codec{}, m.degree)
		if err != nil {
			return nil, err
		}
		err = tr.Scan(func(k int32, v int64) bool {
			out = append(out, Entry{Key: int64(k), Offset: v})
			return true
		})
		return out, err
	}

	tr, err := btree.Open[int64](m.fs, path, btree.Int64Codec{}, m.degree)
	if err != nil {
		return nil, err
	}
	err = tr.Scan(func(k int64, v int64) bool {
		out = append(out, Entry{Key: k, Offset: v})
		return true
	})
	return out, err
}

// DropTable deletes every index artifact of table.
func (m *Manager) DropTable(table string) error {
	lfs := m.files(table)
	paths := make([]string, 0, len(Exts))
	for _, ext := range Exts {
		paths = append(paths, lfs.Path(ext))
	}
	return btree.DropIndex(m.fs, paths...)
}

// DropDatabase deletes every index artifact in dir.
func DropDatabase(fs afero.Fs, dir string) error {
	return storage.RemoveByExt(fs, dir, Exts...)
}
