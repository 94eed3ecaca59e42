package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tuannm99/raptordb/internal/dberr"
)

// Canonical on-disk renderings of temporal values.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05.00"
)

// Go's parser accepts a fractional second after the seconds field even when
// the layout omits it, so these cover both "…:05" and "…:05.25".
var (
	dateLayouts = []string{
		DateLayout,
		"2006/01/02",
		"02/01/2006",
		"01-02-2006",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
	}
	dateTimeLayouts = []string{
		"2006-01-02 15:04:05",
		"2006/01/02 15:04:05",
		"02/01/2006 15:04:05",
		"01-02-2006 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
	}
)

func parseWithLayouts(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate parses a DATE literal or stored value.
func ParseDate(s string) (time.Time, error) {
	t, ok := parseWithLayouts(s, dateLayouts)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: expected YYYY-MM-DD or a slash date, got %q", dberr.ErrFormat, s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ParseDateTime parses a DATETIME literal or stored value.
func ParseDateTime(s string) (time.Time, error) {
	t, ok := parseWithLayouts(s, dateTimeLayouts)
	if !ok {
		return time.Time{}, fmt.Errorf(
			"%w: expected 'YYYY-MM-DD HH:MM:SS.ff' or 'DD/MM/YYYY HH:MM:SS.ff', got %q", dberr.ErrFormat, s,
		)
	}
	return t, nil
}

// ParseInstant parses s as the temporal type t.
func ParseInstant(t ColumnType, s string) (time.Time, error) {
	if t == ColDate {
		return ParseDate(s)
	}
	return ParseDateTime(s)
}

// ParseBool accepts only true/false, case-insensitively.
func ParseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), "true"):
		return true, nil
	case strings.EqualFold(strings.TrimSpace(s), "false"):
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected 'true' or 'false', got %q", dberr.ErrFormat, s)
	}
}

// Unquote strips one matching pair of surrounding quotes.
func Unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// ConvertToInternal validates raw against t and returns the text stored in
// the heap: integers and floats in canonical literal form, booleans as
// true/false, dates as DateLayout and datetimes as DateTimeLayout.
func ConvertToInternal(raw string, t ColumnType) (string, error) {
	v := strings.TrimSpace(raw)
	switch t {
	case ColInt:
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return "", fmt.Errorf("%w: expected INT, got %q", dberr.ErrFormat, raw)
		}
		return strconv.FormatInt(n, 10), nil
	case ColLong:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: expected LONG, got %q", dberr.ErrFormat, raw)
		}
		return strconv.FormatInt(n, 10), nil
	case ColFloat:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", fmt.Errorf("%w: expected FLOAT, got %q", dberr.ErrFormat, raw)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case ColBool:
		b, err := ParseBool(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case ColStr:
		return Unquote(raw), nil
	case ColDate:
		d, err := ParseDate(Unquote(v))
		if err != nil {
			return "", err
		}
		return d.Format(DateLayout), nil
	case ColDateTime:
		dt, err := ParseDateTime(Unquote(v))
		if err != nil {
			return "", err
		}
		return dt.Format(DateTimeLayout), nil
	default:
		return "", fmt.Errorf("%w: unsupported datatype conversion: %s", dberr.ErrSchema, t)
	}
}

// Convert is ConvertToInternal with the column named in the error.
func Convert(col Column, raw string) (string, error) {
	v, err := ConvertToInternal(raw, col.Type)
	if err != nil {
		return "", fmt.Errorf("column %q expects %s but received %q: %w", col.Name, col.Type, raw, err)
	}
	return v, nil
}
