package util

import (
	"io"
	"log/slog"
)

// CloseFunc closes c and logs (instead of returning) a close failure. Used in
// defers where the primary error has already been decided.
func CloseFunc(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("close failed", "err", err)
	}
}
