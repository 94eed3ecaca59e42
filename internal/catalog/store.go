package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/tuannm99/raptordb/internal/alias/util"
	"github.com/tuannm99/raptordb/internal/dberr"
	"github.com/tuannm99/raptordb/internal/record"
	"github.com/tuannm99/raptordb/internal/storage"
)

const SchemaExt = ".schema"

var ErrTableNotFound = fmt.Errorf("%w: table does not exist", dberr.ErrSchema)

// Store keeps one <table>.schema file per table inside a database directory.
// Each line describes a column as name:TYPE:PK (the PK field is empty for
// ordinary columns).
type Store struct {
	fs    afero.Fs
	dir   string
	cache *SchemaCache
}

func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// WithCache shares a schema cache across stores.
func (s *Store) WithCache(c *SchemaCache) *Store {
	s.cache = c
	return s
}

func (s *Store) files(table string) storage.LocalFileSet {
	return storage.LocalFileSet{FS: s.fs, Dir: s.dir, Base: table}
}

// Exists reports whether a schema file is present for table.
func (s *Store) Exists(table string) (bool, error) {
	return s.files(Normalize(table)).Exists(SchemaExt)
}

// Create validates cols and writes the schema file. An existing schema is an
// error; nothing is written when validation fails.
func (s *Store) Create(table string, cols []record.Column) (record.Schema, error) {
	table = Normalize(table)
	if table == "" {
		return record.Schema{}, fmt.Errorf("%w: invalid table name", dberr.ErrSchema)
	}

	sch := record.Schema{Table: table, Cols: make([]record.Column, len(cols))}
	for i, c := range cols {
		c.Name = Normalize(c.Name)
		sch.Cols[i] = c
	}

	lfs := s.files(table)
	exists, err := lfs.Exists(SchemaExt)
	if err != nil {
		return record.Schema{}, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	if exists {
		return record.Schema{}, fmt.Errorf("%w: table %q already exists", dberr.ErrSchema, table)
	}
	if err := sch.Validate(); err != nil {
		return record.Schema{}, err
	}

	var sb strings.Builder
	for _, c := range sch.Cols {
		pk := ""
		if c.PrimaryKey {
			pk = "PK"
		}
		fmt.Fprintf(&sb, "%s:%s:%s\n", c.Name, c.Type, pk)
	}

	if err := lfs.EnsureDir(); err != nil {
		return record.Schema{}, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	if err := afero.WriteFile(s.fs, lfs.Path(SchemaExt), []byte(sb.String()), storage.FileMode0644); err != nil {
		return record.Schema{}, fmt.Errorf("%w: write schema: %v", dberr.ErrStorage, err)
	}
	s.cache.set(lfs.Path(SchemaExt), sch)
	slog.Info("catalog.create", "table", table, "columns", len(sch.Cols))
	return sch, nil
}

// Load parses the schema file of table.
func (s *Store) Load(table string) (record.Schema, error) {
	table = Normalize(table)
	path := s.files(table).Path(SchemaExt)
	if sch, ok := s.cache.get(path); ok {
		return sch, nil
	}

	f, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return record.Schema{}, fmt.Errorf("%w: %q", ErrTableNotFound, table)
		}
		return record.Schema{}, fmt.Errorf("%w: open schema: %v", dberr.ErrStorage, err)
	}
	defer util.CloseFunc(f)

	sch := record.Schema{Table: table}
	sc := bufio.NewScanner(f)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 2 {
			return record.Schema{}, fmt.Errorf("%w: schema parse error in %q line %d: invalid format", dberr.ErrSchema, table, lineNo)
		}
		typ, err := record.ParseColumnType(parts[1])
		if err != nil {
			return record.Schema{}, err
		}
		sch.Cols = append(sch.Cols, record.Column{
			Name:       Normalize(parts[0]),
			Type:       typ,
			PrimaryKey: len(parts) > 2 && parts[2] == "PK",
		})
	}
	if err := sc.Err(); err != nil {
		return record.Schema{}, fmt.Errorf("%w: read schema: %v", dberr.ErrStorage, err)
	}
	s.cache.set(path, sch)
	return sch, nil
}

// Delete removes the schema file; a missing file is fine.
func (s *Store) Delete(table string) error {
	lfs := s.files(Normalize(table))
	s.cache.del(lfs.Path(SchemaExt))
	if err := lfs.Remove(SchemaExt); err != nil {
		return fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	return nil
}

// List returns the sorted names of every table with a schema file.
func (s *Store) List() ([]string, error) {
	names, err := storage.ListByExt(s.fs, s.dir, SchemaExt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	return names, nil
}
