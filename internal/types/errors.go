package types

import (
	"errors"
	"fmt"
)

// ManifestError tags a failure with the manifest it concerns. Err is the
// coded error that caused it.
type ManifestError struct {
	Kind ManifestErrorKind
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("%s error for %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// ManifestErrorOf returns the first ManifestError in err's chain.
func ManifestErrorOf(err error) (*ManifestError, bool) {
	var manifestErr *ManifestError
	if errors.As(err, &manifestErr) {
		return manifestErr, true
	}
	return nil, false
}
