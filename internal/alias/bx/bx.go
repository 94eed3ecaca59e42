// stand for bytes helper
package bx

import "encoding/binary"

// LE is the byte order of every on-disk integer (index header and node pages).
var LE = binary.LittleEndian

// --- read ---
func U32(b []byte) uint32 { return LE.Uint32(b) }
func U64(b []byte) uint64 { return LE.Uint64(b) }
func I32(b []byte) int32  { return int32(U32(b)) }
func I64(b []byte) int64  { return int64(U64(b)) }

// --- write ---
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { LE.PutUint64(b, v) }
func PutI32(b []byte, v int32)  { PutU32(b, uint32(v)) }
func PutI64(b []byte, v int64)  { PutU64(b, uint64(v)) }

// --- append (node encoders grow a buffer, then the pager checks its size) ---
func AppendU32(dst []byte, v uint32) []byte { return LE.AppendUint32(dst, v) }
func AppendI32(dst []byte, v int32) []byte  { return LE.AppendUint32(dst, uint32(v)) }
func AppendI64(dst []byte, v int64) []byte  { return LE.AppendUint64(dst, uint64(v)) }

// --- At (offset) ---
func I32At(b []byte, off int) int32        { return I32(b[off:]) }
func I64At(b []byte, off int) int64        { return I64(b[off:]) }
func U32At(b []byte, off int) uint32       { return U32(b[off:]) }
func PutI64At(b []byte, off int, v int64)  { PutI64(b[off:], v) }
func PutU32At(b []byte, off int, v uint32) { PutU32(b[off:], v) }
