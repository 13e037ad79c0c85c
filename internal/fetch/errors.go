package fetch

import (
	"errors"
	"fmt"
)

// ErrPermanent matches any *PermanentError.
var ErrPermanent = errors.New("permanent download failure")

// PermanentError wraps a 404 or 403 response. It is returned after the
// first attempt without retrying.
type PermanentError struct {
	URL string
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("download %s failed permanently: %s", e.URL, e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func (e *PermanentError) Is(target error) bool {
	return target == ErrPermanent
}

// ExhaustedError is returned once every attempt has failed.
type ExhaustedError struct {
	URL      string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed to download %s after %d attempts: %s", e.URL, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}
