package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by the FetchError returned for an unknown movie id.
var ErrNotFound = errors.New("movie not found")

// Kind classifies a fetch failure.
type Kind string

const (
	KindNetwork Kind = "network" // transport error or timeout
	KindStatus  Kind = "status"  // non-2xx response
	KindDecode  Kind = "decode"  // response body is not the expected JSON
)

// maxErrorBody caps how much of a non-2xx body is kept on the error.
const maxErrorBody = 4 << 10

// FetchError is the only error type returned by Client fetch operations.
type FetchError struct {
	Op     string // "fetch page" | "fetch movie"
	Kind   Kind
	Status int    // HTTP status, 0 for network errors
	Body   string // truncated response body for status errors
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Body != "" {
			return fmt.Sprintf("catalog: %s: status %d: %s", e.Op, e.Status, e.Body)
		}
		return fmt.Sprintf("catalog: %s: status %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("catalog: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err carries a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
