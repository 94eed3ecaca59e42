package catalog

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/tuannm99/raptordb/internal/record"
)

const defaultCacheEntries = 1024

// SchemaCache memoizes parsed schemas keyed by schema file path. A nil
// *SchemaCache is valid and caches nothing.
type SchemaCache struct {
	c *ristretto.Cache[string, record.Schema]
}

// NewSchemaCache builds a cache holding up to maxEntries schemas.
func NewSchemaCache(maxEntries int64) (*SchemaCache, error) {
	if maxEntries <= 0 {
		maxEntries = defaultCacheEntries
	}
	// cost counts entries, not bytes
	c, err := ristretto.NewCache(&ristretto.Config[string, record.Schema]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &SchemaCache{c: c}, nil
}

func (sc *SchemaCache) get(path string) (record.Schema, bool) {
	if sc == nil {
		return record.Schema{}, false
	}
	return sc.c.Get(path)
}

// set is best effort: ristretto may drop the write under contention.
func (sc *SchemaCache) set(path string, sch record.Schema) {
	if sc == nil {
		return
	}
	sc.c.Set(path, sch, 1)
}

func (sc *SchemaCache) del(path string) {
	if sc == nil {
		return
	}
	sc.c.Del(path)
}

// Clear forgets every schema, used when a whole database directory goes away.
func (sc *SchemaCache) Clear() {
	if sc == nil {
		return
	}
	sc.c.Clear()
}

// Wait blocks until buffered writes are applied.
func (sc *SchemaCache) Wait() {
	if sc == nil {
		return
	}
	sc.c.Wait()
}

func (sc *SchemaCache) Close() {
	if sc == nil {
		return
	}
	sc.c.Close()
}
