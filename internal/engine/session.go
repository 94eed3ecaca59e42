package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/tuannm99/raptordb/internal/catalog"
	"github.com/tuannm99/raptordb/internal/dberr"
	"github.com/tuannm99/raptordb/internal/index"
	"github.com/tuannm99/raptordb/internal/storage"
)

const DefaultDatabase = "default_db"

var (
	ErrDatabaseNotFound = fmt.Errorf("%w: database does not exist", dberr.ErrSchema)
	ErrDatabaseExists   = fmt.Errorf("%w: database already exists", dberr.ErrSchema)
	ErrDropActive       = fmt.Errorf("%w: cannot drop the active database", dberr.ErrExecution)
)

// Session is the active-database context: one root directory holding one
// sub-directory per database, and the name of the database commands run in.
// It is passed explicitly to whatever needs it; there is no global state.
type Session struct {
	fs     afero.Fs
	root   string
	active string
}

// NewSession makes sure root and the default database exist and selects the
// default database.
func NewSession(fs afero.Fs, root, defaultDB string) (*Session, error) {
	defaultDB = catalog.Normalize(defaultDB)
	if defaultDB == "" {
		defaultDB = DefaultDatabase
	}
	if err := validName(defaultDB); err != nil {
		return nil, err
	}
	s := &Session{fs: fs, root: root, active: defaultDB}
	if err := fs.MkdirAll(s.DBPath(defaultDB), storage.FileMode0755); err != nil {
		return nil, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	slog.Info("session.open", "root", root, "database", defaultDB)
	return s, nil
}

func (s *Session) FS() afero.Fs { return s.fs }
func (s *Session) Root() string { return s.root }

func (s *Session) ActiveDatabase() string { return s.active }
func (s *Session) ActivePath() string     { return s.DBPath(s.active) }

// DBPath returns the directory of the named database.
func (s *Session) DBPath(name string) string {
	return filepath.Join(s.root, catalog.Normalize(name))
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid database name %q", dberr.ErrSchema, name)
	}
	return nil
}

func (s *Session) exists(name string) (bool, error) {
	ok, err := afero.DirExists(s.fs, s.DBPath(name))
	if err != nil {
		return false, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	return ok, nil
}

// CreateDatabase creates the database directory. It returns the normalized name.
func (s *Session) CreateDatabase(name string) (string, error) {
	name = catalog.Normalize(name)
	if err := validName(name); err != nil {
		return "", err
	}
	ok, err := s.exists(name)
	if err != nil {
		return "", err
	}
	if ok {
		return "", fmt.Errorf("%w: %q", ErrDatabaseExists, name)
	}
	if err := s.fs.MkdirAll(s.DBPath(name), storage.FileMode0755); err != nil {
		return "", fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	return name, nil
}

// UseDatabase switches the active database.
func (s *Session) UseDatabase(name string) (string, error) {
	name = catalog.Normalize(name)
	if err := validName(name); err != nil {
		return "", err
	}
	ok, err := s.exists(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrDatabaseNotFound, name)
	}
	s.active = name
	return name, nil
}

// DropDatabase removes a database that is not active: its index artifacts
// first, then the whole directory.
func (s *Session) DropDatabase(name string) (string, error) {
	name = catalog.Normalize(name)
	if err := validName(name); err != nil {
		return "", err
	}
	if name == s.active {
		return "", fmt.Errorf("%w: %q is in use", ErrDropActive, name)
	}
	ok, err := s.exists(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrDatabaseNotFound, name)
	}

	dir := s.DBPath(name)
	if err := index.DropDatabase(s.fs, dir); err != nil {
		return "", fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	slog.Info("session.drop_database", "database", name)
	return name, nil
}

// ListDatabases returns the sorted database names under root.
func (s *Session) ListDatabases() ([]string, error) {
	ents, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	var out []string
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
