package btree

import (
	"encoding/binary"
	"fmt"

	"github.com/tuannm99/raptordb/internal/alias/bx"
)

// Key is the set of key types a Tree can index.
type Key interface {
	~int32 | ~int64 | ~string
}

// KeyCodec serializes keys of type K inside a node page. Tag is persisted in
// the index header so a file is never reopened with another key type.
type KeyCodec[K Key] interface {
	Tag() uint32
	Append(dst []byte, k K) []byte
	Decode(src []byte) (K, int, error)
}

const (
	TagInt32  uint32 = 1
	TagInt64  uint32 = 2
	tagString uint32 = 3
)

type Int32Codec struct{}

func (Int32Codec) Tag() uint32 { return TagInt32 }

func (Int32Codec) Append(dst []byte, k int32) []byte { return bx.AppendI32(dst, k) }

func (Int32Codec) Decode(src []byte) (int32, int, error) {
	if len(src) < 4 {
		return 0, 0, fmt.Errorf("%w: short int32 key", ErrCorruptNode)
	}
	return bx.I32(src), 4, nil
}

type Int64Codec struct{}

func (Int64Codec) Tag() uint32 { return TagInt64 }

func (Int64Codec) Append(dst []byte, k int64) []byte { return bx.AppendI64(dst, k) }

func (Int64Codec) Decode(src []byte) (int64, int, error) {
	if len(src) < 8 {
		return 0, 0, fmt.Errorf("%w: short int64 key", ErrCorruptNode)
	}
	return bx.I64(src), 8, nil
}

// stringCodec stores a uvarint length followed by the raw bytes.
type stringCodec struct{}

func (stringCodec) Tag() uint32 { return tagString }

func (stringCodec) Append(dst []byte, k string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(k)))
	return append(dst, k...)
}

func (stringCodec) Decode(src []byte) (string, int, error) {
	n, w := binary.Uvarint(src)
	if w <= 0 {
		return "", 0, fmt.Errorf("%w: bad string key length", ErrCorruptNode)
	}
	end := w + int(n)
	if n > uint64(len(src)) || end > len(src) {
		return "", 0, fmt.Errorf("%w: string key exceeds page", ErrCorruptNode)
	}
	return string(src[w:end]), end, nil
}
