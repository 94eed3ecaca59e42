package executor

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/tuannm99/raptordb/internal/record"
)

// Result is the generic query result returned to the caller.
type Result struct {
	Message string

	// For SELECT and the LIST commands:
	Columns []string
	Rows    []record.Row

	// For DML:
	Affected int64
}

func message(format string, args ...any) *Result {
	return &Result{Message: fmt.Sprintf(format, args...)}
}

// String renders the result for a terminal: the message, or an aligned
// table followed by a row count.
func (r *Result) String() string {
	if r == nil {
		return ""
	}
	if r.Columns == nil {
		return r.Message
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(r.Columns, "\t"))
	for _, row := range r.Rows {
		vals := make([]string, len(r.Columns))
		for i, c := range r.Columns {
			vals[i] = row[c]
		}
		fmt.Fprintln(w, strings.Join(vals, "\t"))
	}
	_ = w.Flush()

	noun := "rows"
	if len(r.Rows) == 1 {
		noun = "row"
	}
	fmt.Fprintf(&sb, "(%d %s)", len(r.Rows), noun)
	return sb.String()
}
