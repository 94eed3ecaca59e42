package locking

import "sync"

type tableLock struct {
	mu   sync.Mutex
	refs int // holders plus waiters, guarded by TableLocks.mu
}

// TableLocks hands out one mutex per (database, table) pair so mutating
// commands on the same table do not interleave inside this process. Entries
// are dropped once nobody holds or waits on them. It gives no protection
// against other processes.
type TableLocks struct {
	mu    sync.Mutex
	locks map[string]*tableLock
}

func NewTableLocks() *TableLocks {
	return &TableLocks{locks: make(map[string]*tableLock)}
}

func key(db, table string) string { return db + "/" + table }

// Lock blocks until the table is free and returns its unlock func.
func (l *TableLocks) Lock(db, table string) func() {
	k := key(db, table)

	l.mu.Lock()
	tl, ok := l.locks[k]
	if !ok {
		tl = &tableLock{}
		l.locks[k] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.mu.Lock()
	return func() {
		tl.mu.Unlock()
		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.locks, k)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of live entries.
func (l *TableLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
