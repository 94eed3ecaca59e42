package record

import (
	"fmt"
	"strings"

	"github.com/tuannm99/raptordb/internal/dberr"
)

type ColumnType uint8

const (
	ColInt ColumnType = iota + 1
	ColLong
	ColStr
	ColBool
	ColFloat
	ColDate
	ColDateTime
)

var columnTypeNames = map[ColumnType]string{
	ColInt:      "INT",
	ColLong:     "LONG",
	ColStr:      "STR",
	ColBool:     "BOOL",
	ColFloat:    "FLOAT",
	ColDate:     "DATE",
	ColDateTime: "DATETIME",
}

func (t ColumnType) String() string {
	if s, ok := columnTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ColumnType(%d)", uint8(t))
}

// Supported reports whether t is one of the declared column types.
func (t ColumnType) Supported() bool {
	_, ok := columnTypeNames[t]
	return ok
}

// AllowedAsPrimaryKey: FLOAT and BOOL cannot key the index.
func (t ColumnType) AllowedAsPrimaryKey() bool {
	switch t {
	case ColInt, ColLong, ColStr, ColDate, ColDateTime:
		return true
	default:
		return false
	}
}

// ParseColumnType maps a type name (case-insensitive) to a ColumnType.
func ParseColumnType(s string) (ColumnType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for t, n := range columnTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not a supported data type", dberr.ErrSchema, s)
}

type Column struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
}

type Schema struct {
	Table string
	Cols  []Column
}

func (s Schema) NumCols() int { return len(s.Cols) }

// ColPos returns the position of the named column or -1.
func (s Schema) ColPos(name string) int {
	for i := range s.Cols {
		if s.Cols[i].Name == name {
			return i
		}
	}
	return -1
}

func (s Schema) Column(name string) (Column, bool) {
	pos := s.ColPos(name)
	if pos < 0 {
		return Column{}, false
	}
	return s.Cols[pos], true
}

// MustColumn is Column with an ErrSchema for unknown names.
func (s Schema) MustColumn(name string) (Column, error) {
	col, ok := s.Column(name)
	if !ok {
		return Column{}, fmt.Errorf("%w: column %q does not exist in table %q", dberr.ErrSchema, name, s.Table)
	}
	return col, nil
}

func (s Schema) ColumnNames() []string {
	out := make([]string, 0, len(s.Cols))
	for _, c := range s.Cols {
		out = append(out, c.Name)
	}
	return out
}

// PrimaryKey returns the single primary-key column.
func (s Schema) PrimaryKey() (Column, error) {
	var (
		pk    Column
		count int
	)
	for _, c := range s.Cols {
		if c.PrimaryKey {
			pk = c
			count++
		}
	}
	if count != 1 {
		return Column{}, fmt.Errorf("%w: table must define exactly ONE primary key (got %d)", dberr.ErrConstraint, count)
	}
	return pk, nil
}

// Validate checks column types, the primary-key rules and name uniqueness.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Cols))
	for _, c := range s.Cols {
		if c.Name == "" {
			return fmt.Errorf("%w: empty column name", dberr.ErrSchema)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate column %q", dberr.ErrSchema, c.Name)
		}
		seen[c.Name] = struct{}{}

		if !c.Type.Supported() {
			return fmt.Errorf("%w: %s is not a supported data type", dberr.ErrSchema, c.Type)
		}
		if c.PrimaryKey && !c.Type.AllowedAsPrimaryKey() {
			return fmt.Errorf(
				"%w: PK type %s is not allowed (allowed: INT, LONG, STR, DATE, DATETIME)",
				dberr.ErrConstraint, c.Type,
			)
		}
	}
	_, err := s.PrimaryKey()
	return err
}
