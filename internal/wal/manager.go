package wal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/tuannm99/raptordb/internal/alias/util"
	"github.com/tuannm99/raptordb/internal/dberr"
	"github.com/tuannm99/raptordb/internal/storage"
)

const (
	FileName   = "wal.log"
	TimeLayout = "2006-01-02T15:04:05"
)

type Action string

const (
	ActionInsert       Action = "INSERT"
	ActionDelete       Action = "DELETE"
	ActionUpdate       Action = "UPDATE"
	ActionDropTable    Action = "DROP_TABLE"
	ActionDropDatabase Action = "DROP_DATABASE"
)

var ErrBadRecord = fmt.Errorf("%w: wal: bad record", dberr.ErrStorage)

// details are free text; line breaks are escaped so a record stays one line
var (
	escaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\r`, "\r")
)

// Entry is one journal line: timestamp|action|table|details.
type Entry struct {
	Time    time.Time
	Action  Action
	Table   string
	Details string
}

func (e Entry) String() string {
	return strings.Join([]string{
		e.Time.Format(TimeLayout), string(e.Action), escaper.Replace(e.Table), escaper.Replace(e.Details),
	}, "|")
}

// Manager appends audit records to <dir>/wal.log. The journal is never
// replayed, truncated or deleted; it only records what happened.
type Manager struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
	now func() time.Time
}

func Open(fs afero.Fs, dir string) *Manager {
	return &Manager{fs: fs, dir: dir, now: time.Now}
}

// WithClock replaces the timestamp source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) Path() string { return filepath.Join(m.dir, FileName) }

// Log appends one record.
func (m *Manager) Log(action Action, table, details string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fs.MkdirAll(m.dir, storage.FileMode0755); err != nil {
		return fmt.Errorf("%w: wal: %v", dberr.ErrStorage, err)
	}
	f, err := m.fs.OpenFile(m.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, storage.FileMode0644)
	if err != nil {
		return fmt.Errorf("%w: wal: %v", dberr.ErrStorage, err)
	}
	defer util.CloseFunc(f)

	e := Entry{Time: m.now(), Action: action, Table: table, Details: details}
	if _, err := f.Write([]byte(e.String() + "\n")); err != nil {
		return fmt.Errorf("%w: wal: %v", dberr.ErrStorage, err)
	}
	return nil
}

func (m *Manager) LogDropTable(table string) error {
	return m.Log(ActionDropTable, table, "TABLE REMOVED")
}

func (m *Manager) LogDropDatabase(db string) error {
	return m.Log(ActionDropDatabase, db, "DATABASE REMOVED")
}

// Entries reads the journal back. A missing file has no entries.
func (m *Manager) Entries() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.fs.Open(m.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: wal: %v", dberr.ErrStorage, err)
	}
	defer util.CloseFunc(f)

	var out []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		e, err := parseEntry(line)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: wal: %v", dberr.ErrStorage, err)
	}
	return out, nil
}

// details may itself contain '|', so only the first three separators split.
func parseEntry(line string) (Entry, error) {
	parts := strings.SplitN(line, "|", 4)
	if len(parts) != 4 {
		return Entry{}, fmt.Errorf("%w: %q", ErrBadRecord, line)
	}
	ts, err := time.ParseInLocation(TimeLayout, parts[0], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %q: %v", ErrBadRecord, line, err)
	}
	return Entry{
		Time:    ts,
		Action:  Action(parts[1]),
		Table:   unescaper.Replace(parts[2]),
		Details: unescaper.Replace(parts[3]),
	}, nil
}
