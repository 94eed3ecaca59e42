package executor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tuannm99/raptordb/internal/catalog"
	"github.com/tuannm99/raptordb/internal/record"
	"github.com/tuannm99/raptordb/internal/sql/parser"
)

// boundCondition is a WHERE term resolved against the table schema.
type boundCondition struct {
	col   record.Column
	op    parser.Op
	value string
}

// bindWhere resolves every condition column; an unknown column is a schema
// error reported before any row is read.
func bindWhere(sch record.Schema, conds []parser.Condition) ([]boundCondition, error) {
	out := make([]boundCondition, 0, len(conds))
	for _, c := range conds {
		col, err := sch.MustColumn(catalog.Normalize(c.Column))
		if err != nil {
			return nil, err
		}
		out = append(out, boundCondition{col: col, op: c.Op, value: c.Value})
	}
	return out, nil
}

// matchAll is the conjunction of conds over row. No conditions match every row.
func matchAll(row record.Row, conds []boundCondition) bool {
	for _, c := range conds {
		if !c.match(row) {
			return false
		}
	}
	return true
}

// match compares the stored value against the literal using the column type.
// A missing value or one that does not parse on either side is no match.
func (c boundCondition) match(row record.Row) bool {
	stored, ok := row[c.col.Name]
	if !ok {
		return false
	}
	cmp, ok := compareTyped(c.col.Type, stored, record.Unquote(strings.TrimSpace(c.value)))
	if !ok {
		return false
	}
	switch c.op {
	case parser.OpEq:
		return cmp == 0
	case parser.OpNe:
		return cmp != 0
	case parser.OpLt:
		return cmp < 0
	case parser.OpLe:
		return cmp <= 0
	case parser.OpGt:
		return cmp > 0
	case parser.OpGe:
		return cmp >= 0
	default:
		return false
	}
}

func compareTyped(t record.ColumnType, a, b string) (int, bool) {
	switch t {
	case record.ColInt, record.ColLong:
		x, err1 := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		y, err2 := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return cmp3(x < y, x > y), true
	case record.ColFloat:
		x, err1 := strconv.ParseFloat(strings.TrimSpace(a), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return cmp3(x < y, x > y), true
	case record.ColDate, record.ColDateTime:
		x, err1 := record.ParseInstant(t, a)
		y, err2 := record.ParseInstant(t, b)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return x.Compare(y), true
	case record.ColBool:
		x, err1 := record.ParseBool(a)
		y, err2 := record.ParseBool(b)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return cmp3(!x && y, x && !y), true
	case record.ColStr:
		return strings.Compare(strings.ToLower(a), strings.ToLower(b)), true
	default:
		return 0, false
	}
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	default:
		return 0
	}
}

// describeWhere renders conditions for the journal.
func describeWhere(conds []parser.Condition) string {
	if len(conds) == 0 {
		return "ALL"
	}
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, fmt.Sprintf("%s%s%s", catalog.Normalize(c.Column), c.Op, c.Value))
	}
	return strings.Join(parts, " AND ")
}
