package btree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/raptordb/internal/storage"
)

func TestNode_LeafRoundTrip(t *testing.T) {
	n := &Node[string]{PageID: 16, IsLeaf: true, Keys: []string{"a", "bb", ""}, Values: []int64{0, 42, -1}, NextLeaf: 4112}
	got, err := decodeNode(16, n.encode(stringCodec{}), stringCodec{})
	require.NoError(t, err)
	require.Equal(t, n, got)
}

func TestNode_InternalRoundTrip(t *testing.T) {
	n := &Node[int64]{PageID: 4112, Keys: []int64{5, 9}, Children: []int64{16, 8208, 12304}}
	got, err := decodeNode(4112, n.encode(Int64Codec{}), Int64Codec{})
	require.NoError(t, err)
	require.False(t, got.IsLeaf)
	require.Equal(t, n.Keys, got.Keys)
	require.Equal(t, n.Children, got.Children)
}

func TestNode_ZeroPageDecodesAsEmptyInternal(t *testing.T) {
	got, err := decodeNode(16, make([]byte, storage.PageSize), Int32Codec{})
	require.NoError(t, err)
	require.Empty(t, got.Keys)
	require.Len(t, got.Children, 1)
}

func TestNode_Truncated(t *testing.T) {
	n := &Node[int32]{PageID: 16, IsLeaf: true, Keys: []int32{1, 2}, Values: []int64{1, 2}, NextLeaf: storage.NoPage}
	buf := n.encode(Int32Codec{})
	_, err := decodeNode(16, buf[:len(buf)-3], Int32Codec{})
	require.ErrorIs(t, err, ErrCorruptNode)

	_, err = decodeNode(16, []byte{1}, Int32Codec{})
	require.ErrorIs(t, err, ErrCorruptNode)
}
