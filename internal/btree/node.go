package btree

import (
	"fmt"

	"github.com/tuannm99/raptordb/internal/alias/bx"
	"github.com/tuannm99/raptordb/internal/storage"
)

// Node is the in-memory form of one index page.
//
// On disk:
//
//	isLeaf   1 byte
//	keyCount 4 bytes
//	keys     codec-encoded, keyCount of them
//	leaf:     values (int64 each) then nextLeaf (int64)
//	internal: children (int64 each), keyCount+1 of them
type Node[K Key] struct {
	PageID   int64
	IsLeaf   bool
	Keys     []K
	Values   []int64 // leaf only, parallel to Keys
	Children []int64 // internal only
	NextLeaf int64   // leaf only, storage.NoPage at the end of the chain
}

func newLeaf[K Key](id int64) *Node[K] {
	return &Node[K]{PageID: id, IsLeaf: true, NextLeaf: storage.NoPage}
}

func (n *Node[K]) encode(codec KeyCodec[K]) []byte {
	buf := make([]byte, 0, storage.PageSize)
	if n.IsLeaf {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = bx.AppendI32(buf, int32(len(n.Keys)))
	for _, k := range n.Keys {
		buf = codec.Append(buf, k)
	}
	if n.IsLeaf {
		for _, v := range n.Values {
			buf = bx.AppendI64(buf, v)
		}
		buf = bx.AppendI64(buf, n.NextLeaf)
		return buf
	}
	for _, c := range n.Children {
		buf = bx.AppendI64(buf, c)
	}
	return buf
}

func decodeNode[K Key](id int64, buf []byte, codec KeyCodec[K]) (*Node[K], error) {
	if len(buf) < 5 {
		return nil, fmt.Errorf("%w: page %d too short", ErrCorruptNode, id)
	}
	n := &Node[K]{PageID: id, IsLeaf: buf[0] == 1}
	count := int(bx.I32At(buf, 1))
	if count < 0 || count > len(buf) {
		return nil, fmt.Errorf("%w: page %d bad key count %d", ErrCorruptNode, id, count)
	}

	off := 5
	n.Keys = make([]K, 0, count)
	for i := 0; i < count; i++ {
		k, w, err := codec.Decode(buf[off:])
		if err != nil {
			return nil, fmt.Errorf("page %d key %d: %w", id, i, err)
		}
		n.Keys = append(n.Keys, k)
		off += w
	}

	read := func() (int64, error) {
		if off+8 > len(buf) {
			return 0, fmt.Errorf("%w: page %d truncated", ErrCorruptNode, id)
		}
		v := bx.I64At(buf, off)
		off += 8
		return v, nil
	}

	if n.IsLeaf {
		n.Values = make([]int64, count)
		for i := range n.Values {
			v, err := read()
			if err != nil {
				return nil, err
			}
			n.Values[i] = v
		}
		next, err := read()
		if err != nil {
			return nil, err
		}
		n.NextLeaf = next
		return n, nil
	}

	n.Children = make([]int64, count+1)
	for i := range n.Children {
		c, err := read()
		if err != nil {
			return nil, err
		}
		n.Children[i] = c
	}
	return n, nil
}
