package btree

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/spf13/afero"

	"github.com/tuannm99/raptordb/internal/storage"
)

// DefaultDegree is the minimum degree used when none is configured.
const DefaultDegree = 3

// Tree is a disk-backed B+Tree mapping unique keys to int64 values (heap
// offsets). Nodes are read from and written to the pager on every access;
// only the root id and degree are kept in memory.
//
// A node holds at most 2t-1 keys. Full nodes are split on the way down so an
// insert never has to walk back up.
type Tree[K Key] struct {
	pager  *storage.Pager
	codec  KeyCodec[K]
	degree int
	root   int64
}

// Open opens (or creates) the index file at path. For an existing file the
// degree stored in its header is used.
func Open[K Key](fs afero.Fs, path string, codec KeyCodec[K], degree int) (*Tree[K], error) {
	if degree < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrBadDegree, degree)
	}
	p, h, err := storage.OpenPager(fs, path, codec.Tag(), uint32(degree))
	if err != nil {
		return nil, err
	}
	if h.Degree >= 2 {
		degree = int(h.Degree)
	}
	return &Tree[K]{pager: p, codec: codec, degree: degree, root: h.Root}, nil
}

func (t *Tree[K]) Root() int64  { return t.root }
func (t *Tree[K]) Degree() int  { return t.degree }
func (t *Tree[K]) maxKeys() int { return 2*t.degree - 1 }

func (t *Tree[K]) load(id int64) (*Node[K], error) {
	buf, err := t.pager.ReadPage(id)
	if err != nil {
		return nil, err
	}
	return decodeNode(id, buf, t.codec)
}

func (t *Tree[K]) store(n *Node[K]) error {
	return t.pager.WritePage(n.PageID, n.encode(t.codec))
}

func (t *Tree[K]) setRoot(id int64) error {
	if err := t.pager.SaveRoot(id); err != nil {
		return err
	}
	t.root = id
	return nil
}

// childIndex routes key to a child: the number of separators <= key, so
// a key equal to a separator goes right.
func childIndex[K Key](n *Node[K], key K) int {
	i := sort.Search(len(n.Keys), func(i int) bool { return cmp.Compare(n.Keys[i], key) > 0 })
	if i > len(n.Children)-1 {
		i = len(n.Children) - 1
	}
	return i
}

// Find returns the value stored under key.
func (t *Tree[K]) Find(key K) (int64, bool, error) {
	if t.root == storage.NoPage {
		return 0, false, nil
	}
	n, err := t.load(t.root)
	if err != nil {
		return 0, false, err
	}
	for !n.IsLeaf {
		if len(n.Children) == 0 {
			return 0, false, fmt.Errorf("%w: internal page %d has no children", ErrCorruptNode, n.PageID)
		}
		if n, err = t.load(n.Children[childIndex(n, key)]); err != nil {
			return 0, false, err
		}
	}
	if i, ok := slices.BinarySearch(n.Keys, key); ok {
		return n.Values[i], true, nil
	}
	return 0, false, nil
}

// Insert adds key -> value. Keys are unique; a second insert of the same key
// returns ErrDuplicateKey and leaves the tree unchanged.
func (t *Tree[K]) Insert(key K, value int64) error {
	if _, found, err := t.Find(key); err != nil {
		return err
	} else if found {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}

	if t.root == storage.NoPage {
		id, err := t.pager.AllocatePage()
		if err != nil {
			return err
		}
		leaf := newLeaf[K](id)
		leaf.Keys = []K{key}
		leaf.Values = []int64{value}
		if err := t.store(leaf); err != nil {
			return err
		}
		return t.setRoot(id)
	}

	root, err := t.load(t.root)
	if err != nil {
		return err
	}
	if len(root.Keys) < t.maxKeys() {
		return t.insertNonFull(root, key, value)
	}

	id, err := t.pager.AllocatePage()
	if err != nil {
		return err
	}
	newRoot := &Node[K]{PageID: id, Children: []int64{root.PageID}, NextLeaf: storage.NoPage}
	if err := t.splitChild(newRoot, 0, root); err != nil {
		return err
	}
	if err := t.setRoot(id); err != nil {
		return err
	}
	slog.Debug("btree.grow", "path", t.pager.Path(), "root", id)
	return t.insertNonFull(newRoot, key, value)
}

// splitChild splits the full child at parent.Children[i].
//
// Leaf: left keeps keys[:t-1], right takes keys[t-1:], and a copy of the
// right's first key becomes the separator. Internal: keys[t-1] moves up and
// the right node takes the keys and children after it.
func (t *Tree[K]) splitChild(parent *Node[K], i int, child *Node[K]) error {
	id, err := t.pager.AllocatePage()
	if err != nil {
		return err
	}
	mid := t.degree - 1
	right := &Node[K]{PageID: id, IsLeaf: child.IsLeaf, NextLeaf: storage.NoPage}

	var sep K
	if child.IsLeaf {
		right.Keys = slices.Clone(child.Keys[mid:])
		right.Values = slices.Clone(child.Values[mid:])
		child.Keys = slices.Clone(child.Keys[:mid])
		child.Values = slices.Clone(child.Values[:mid])
		right.NextLeaf = child.NextLeaf
		child.NextLeaf = right.PageID
		sep = right.Keys[0]
	} else {
		sep = child.Keys[mid]
		right.Keys = slices.Clone(child.Keys[mid+1:])
		right.Children = slices.Clone(child.Children[mid+1:])
		child.Keys = slices.Clone(child.Keys[:mid])
		child.Children = slices.Clone(child.Children[:mid+1])
	}

	parent.Keys = slices.Insert(parent.Keys, i, sep)
	parent.Children = slices.Insert(parent.Children, i+1, right.PageID)

	for _, n := range []*Node[K]{child, right, parent} {
		if err := t.store(n); err != nil {
			return err
		}
	}
	slog.Debug("btree.split", "path", t.pager.Path(), "left", child.PageID, "right", right.PageID, "leaf", child.IsLeaf)
	return nil
}

func (t *Tree[K]) insertNonFull(n *Node[K], key K, value int64) error {
	for !n.IsLeaf {
		i := childIndex(n, key)
		child, err := t.load(n.Children[i])
		if err != nil {
			return err
		}
		if len(child.Keys) == t.maxKeys() {
			if err := t.splitChild(n, i, child); err != nil {
				return err
			}
			if cmp.Compare(key, n.Keys[i]) >= 0 {
				i++
			}
			if child, err = t.load(n.Children[i]); err != nil {
				return err
			}
		}
		n = child
	}

	pos := sort.Search(len(n.Keys), func(j int) bool { return cmp.Compare(n.Keys[j], key) > 0 })
	n.Keys = slices.Insert(n.Keys, pos, key)
	n.Values = slices.Insert(n.Values, pos, value)
	return t.store(n)
}

// Height returns the number of levels, 0 for an empty tree.
func (t *Tree[K]) Height() (int, error) {
	if t.root == storage.NoPage {
		return 0, nil
	}
	h := 1
	n, err := t.load(t.root)
	if err != nil {
		return 0, err
	}
	for !n.IsLeaf {
		if n, err = t.load(n.Children[0]); err != nil {
			return 0, err
		}
		h++
	}
	return h, nil
}
