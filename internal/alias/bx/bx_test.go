package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLittleEndianReadWrite verifies that the signed helpers round-trip
// negative values (the index header stores -1 as "no root").
func TestLittleEndianReadWrite(t *testing.T) {
	// ---- I32 ----
	{
		b := make([]byte, 4)
		PutI32(b, -2)
		assert.Equal(t, []byte{0xFE, 0xFF, 0xFF, 0xFF}, b)
		assert.Equal(t, int32(-2), I32(b))
	}

	// ---- I64 ----
	{
		b := make([]byte, 8)
		PutI64(b, -1)
		assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, b)
		assert.Equal(t, int64(-1), I64(b))
	}

	// ---- U32 ----
	{
		b := make([]byte, 4)
		var v uint32 = 0x01020304
		PutU32(b, v)
		// LE: 04 03 02 01
		assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b)
		assert.Equal(t, v, U32(b))
	}
}

func TestAppendAndAt(t *testing.T) {
	var buf []byte
	buf = AppendI32(buf, 7)
	buf = AppendI64(buf, -42)
	buf = AppendU32(buf, 0xCAFE)

	assert.Len(t, buf, 16)
	assert.Equal(t, int32(7), I32At(buf, 0))
	assert.Equal(t, int64(-42), I64At(buf, 4))
	assert.Equal(t, uint32(0xCAFE), U32At(buf, 12))

	PutI64At(buf, 4, 99)
	PutU32At(buf, 12, 1)
	assert.Equal(t, int64(99), I64At(buf, 4))
	assert.Equal(t, uint32(1), U32At(buf, 12))
}
