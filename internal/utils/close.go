package utils

import (
	"io"

	"github.com/sneyderangulo/readinglist/internal/logger"
)

// Close closes c and ignores any error.
// Use for best-effort cleanup in defer where error handling is not critical.
func Close(c io.Closer) {
	_ = c.Close()
}

// MustClose closes c and logs any error. For shutdown paths where a failed
// close is worth a line in the log.
func MustClose(c io.Closer, log logger.Logger, what string) {
	if err := c.Close(); err != nil {
		log.Warnf("failed to close %s: %v", what, err)
	}
}
