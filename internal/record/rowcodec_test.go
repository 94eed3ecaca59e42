package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRow_RoundTrip(t *testing.T) {
	row := Row{
		"id":   "1",
		"name": "Ann",
		"note": "a|b=c==|d",
		"pipe": "|||",
		"eq":   "====",
		"uni":  "héllo wörld",
	}

	line := EncodeRow(row)
	require.NotContains(t, line, "\n")

	got := DecodeRow(line)
	require.Equal(t, row, got)
}

func TestEncodeRow_FieldLayout(t *testing.T) {
	line := EncodeRow(Row{"b": "x", "a": "hi"})
	// columns are emitted in sorted order, values base64-encoded
	require.Equal(t, "a=aGk=|b=eA==", line)
}

func TestEncodeDecodeRow_EmptyValue(t *testing.T) {
	row := Row{"id": "7", "name": ""}
	got := DecodeRow(EncodeRow(row))
	require.Equal(t, row, got)
}

func TestDecodeRow_BlankAndMalformed(t *testing.T) {
	require.Empty(t, DecodeRow(""))
	require.Empty(t, DecodeRow("   \r\n"))

	// field without '=' is skipped, legacy raw value falls back to itself
	got := DecodeRow("junk|id=not*base64")
	require.Equal(t, Row{"id": "not*base64"}, got)
}

func TestDecodeRow_TrailingNewline(t *testing.T) {
	line := EncodeRow(Row{"id": "3"}) + "\r\n"
	require.Equal(t, Row{"id": "3"}, DecodeRow(line))
}
