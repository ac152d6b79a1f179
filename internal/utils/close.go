package utils

import "io"

// Close closes c and drops the error. For deferred cleanup of read-only
// resources such as response bodies.
func Close(c io.Closer) {
	_ = c.Close()
}
