package btree

import (
	"fmt"

	"github.com/tuannm99/raptordb/internal/dberr"
)

var (
	// ErrDuplicateKey is returned by Insert when the key is already indexed.
	ErrDuplicateKey = fmt.Errorf("%w: duplicate key", dberr.ErrConstraint)

	ErrCorruptNode = fmt.Errorf("%w: corrupt btree node", dberr.ErrStorage)
	ErrBadDegree   = fmt.Errorf("%w: btree degree must be at least 2", dberr.ErrStorage)
)
