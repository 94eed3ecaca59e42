package record

import (
	"encoding/base64"
	"sort"
	"strings"
)

const (
	fieldSep = "|"
	kvSep    = "="
)

// Row maps column name to the value's stored text. Column order is not
// significant.
type Row map[string]string

func encodeValue(v string) string {
	if v == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(v))
}

func decodeValue(v string) string {
	if v == "" {
		return ""
	}
	b, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		// Lines written before values were encoded.
		return v
	}
	return string(b)
}

// EncodeRow renders r as one heap line (without the newline):
// col=Base64(value) pairs joined by '|', columns in sorted order.
func EncodeRow(r Row) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(fieldSep)
		}
		sb.WriteString(k)
		sb.WriteString(kvSep)
		sb.WriteString(encodeValue(r[k]))
	}
	return sb.String()
}

// DecodeRow parses a heap line. Each field splits on its first '=' only, so
// base64 padding survives. Fields without '=' are ignored.
func DecodeRow(line string) Row {
	row := Row{}
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return row
	}
	for _, field := range strings.Split(line, fieldSep) {
		k, v, ok := strings.Cut(field, kvSep)
		if !ok {
			continue
		}
		row[k] = decodeValue(v)
	}
	return row
}
