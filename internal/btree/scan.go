package btree

import "github.com/tuannm99/raptordb/internal/storage"

// Scan visits every entry in key order by following the leaf chain from the
// leftmost leaf. fn returning false stops the walk.
func (t *Tree[K]) Scan(fn func(key K, value int64) bool) error {
	if t.root == storage.NoPage {
		return nil
	}
	n, err := t.load(t.root)
	if err != nil {
		return err
	}
	for !n.IsLeaf {
		if n, err = t.load(n.Children[0]); err != nil {
			return err
		}
	}
	seen := 0
	for {
		for i, k := range n.Keys {
			if !fn(k, n.Values[i]) {
				return nil
			}
		}
		if n.NextLeaf == storage.NoPage {
			return nil
		}
		// a chain longer than the file has pages means a cycle
		seen++
		if total, err := t.pager.PageCount(); err == nil && int64(seen) > total {
			return ErrCorruptNode
		}
		if n, err = t.load(n.NextLeaf); err != nil {
			return err
		}
	}
}
