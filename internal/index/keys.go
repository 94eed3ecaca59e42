package index

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tuannm99/raptordb/internal/dberr"
	"github.com/tuannm99/raptordb/internal/record"
)

const (
	Int32Ext  = ".bpt"
	Int64Ext  = ".bpt64"
	BackupExt = ".idx"
)

// Exts lists every index artifact extension.
var Exts = []string{Int32Ext, Int64Ext, BackupExt}

// FileExt returns the index file extension for a primary key of type t.
func FileExt(t record.ColumnType) string {
	if t == record.ColInt {
		return Int32Ext
	}
	return Int64Ext
}

func int32Key(v string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: INT key %q: %v", dberr.ErrFormat, v, err)
	}
	return int32(n), nil
}

// int64Key maps a stored primary-key value to its position in an int64 tree.
// DATE is Unix seconds at UTC midnight, DATETIME is Unix milliseconds. STR
// keys must themselves be base-10 integers.
func int64Key(t record.ColumnType, v string) (int64, error) {
	switch t {
	case record.ColDate:
		d, err := record.ParseDate(v)
		if err != nil {
			return 0, err
		}
		return d.Unix(), nil
	case record.ColDateTime:
		dt, err := record.ParseDateTime(v)
		if err != nil {
			return 0, err
		}
		return dt.UnixMilli(), nil
	case record.ColLong, record.ColStr:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s key %q is not representable as an integer", dberr.ErrFormat, t, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s cannot be an index key", dberr.ErrConstraint, t)
	}
}

// CheckKey reports whether value can be stored as a key of pk's index.
func CheckKey(pk record.Column, value string) error {
	if pk.Type == record.ColInt {
		_, err := int32Key(value)
		return err
	}
	_, err := int64Key(pk.Type, value)
	return err
}
