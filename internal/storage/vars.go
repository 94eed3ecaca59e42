package storage

import (
	"fmt"

	"github.com/tuannm99/raptordb/internal/dberr"
)

const (
	PageSize   = 1 << 12 // 4,096 (4 KiB)
	HeaderSize = 16      // root(8) codec(4) degree(4)

	// NoPage marks an empty tree (no root allocated) and the end of the leaf chain.
	NoPage int64 = -1
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

var (
	ErrInvalidPage   = fmt.Errorf("%w: invalid page access", dberr.ErrStorage)
	ErrPageOverflow  = fmt.Errorf("%w: page overflow", dberr.ErrStorage)
	ErrBadHeader     = fmt.Errorf("%w: bad index header", dberr.ErrStorage)
	ErrCodecMismatch = fmt.Errorf("%w: index key codec mismatch", dberr.ErrStorage)
)
