package heap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/tuannm99/raptordb/internal/alias/util"
	"github.com/tuannm99/raptordb/internal/dberr"
	"github.com/tuannm99/raptordb/internal/record"
	"github.com/tuannm99/raptordb/internal/storage"
)

const DataExt = ".data"

var ErrBadTID = fmt.Errorf("%w: tuple id out of range", dberr.ErrStorage)

// Table is the append-only row file <Dir>/<Name>.data: one encoded row per
// line. The file is opened per call and closed before returning.
type Table struct {
	Name  string
	Files storage.LocalFileSet
}

func NewTable(files storage.LocalFileSet) *Table {
	return &Table{Name: files.Base, Files: files}
}

func (t *Table) path() string { return t.Files.Path(DataExt) }

// Append writes row at the end of the file and returns the offset where its
// line starts.
func (t *Table) Append(row record.Row) (TID, error) {
	if err := t.Files.EnsureDir(); err != nil {
		return 0, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	f, err := t.Files.FS.OpenFile(t.path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, storage.FileMode0644)
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %v", dberr.ErrStorage, t.path(), err)
	}
	defer util.CloseFunc(f)

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	off := info.Size()

	if _, err := f.Write([]byte(record.EncodeRow(row) + "\n")); err != nil {
		return 0, fmt.Errorf("%w: append %s: %v", dberr.ErrStorage, t.path(), err)
	}
	slog.Debug("heap.append", "table", t.Name, "tid", off)
	return TID(off), nil
}

// Scan calls fn for every stored row in file order. Blank lines are skipped.
// A missing file is an empty table. fn returning false stops the scan.
func (t *Table) Scan(fn func(tid TID, row record.Row) bool) error {
	f, err := t.Files.FS.Open(t.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: open %s: %v", dberr.ErrStorage, t.path(), err)
	}
	defer util.CloseFunc(f)

	r := bufio.NewReader(f)
	var off int64
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			start := off
			off += int64(len(line))
			if strings.TrimSpace(line) != "" {
				if !fn(TID(start), record.DecodeRow(line)) {
					return nil
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: read %s: %v", dberr.ErrStorage, t.path(), err)
		}
	}
}

// ReadAll returns every stored row in file order.
func (t *Table) ReadAll() ([]record.Row, error) {
	var rows []record.Row
	err := t.Scan(func(_ TID, row record.Row) bool {
		rows = append(rows, row)
		return true
	})
	return rows, err
}

// ReadAt decodes the single row whose line starts at tid.
func (t *Table) ReadAt(tid TID) (record.Row, error) {
	f, err := t.Files.FS.Open(t.path())
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", dberr.ErrStorage, t.path(), err)
	}
	defer util.CloseFunc(f)

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	if tid < 0 || int64(tid) >= info.Size() {
		return nil, fmt.Errorf("%w: %d (size %d)", ErrBadTID, tid, info.Size())
	}

	r := bufio.NewReader(io.NewSectionReader(f, int64(tid), info.Size()-int64(tid)))
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: read %s: %v", dberr.ErrStorage, t.path(), err)
	}
	return record.DecodeRow(line), nil
}

// Rewrite replaces the whole file with rows. The write is not atomic; a
// crash mid-way can leave a truncated file.
func (t *Table) Rewrite(rows []record.Row) error {
	if err := t.Files.EnsureDir(); err != nil {
		return fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(record.EncodeRow(row))
		sb.WriteByte('\n')
	}
	if err := afero.WriteFile(t.Files.FS, t.path(), []byte(sb.String()), storage.FileMode0644); err != nil {
		return fmt.Errorf("%w: rewrite %s: %v", dberr.ErrStorage, t.path(), err)
	}
	slog.Debug("heap.rewrite", "table", t.Name, "rows", len(rows))
	return nil
}

// Drop deletes the data file if present.
func (t *Table) Drop() error {
	if err := t.Files.Remove(DataExt); err != nil {
		return fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	return nil
}
