package oledanim

import (
	"errors"
	"fmt"
)

// Error kinds. Errors returned by this package wrap one of these; use
// errors.Is to classify them.
var (
	// ErrDecode reports an input that cannot be opened or decoded as image data.
	ErrDecode = errors.New("oledanim: cannot decode input")
	// ErrConfig reports a missing or out of range parameter.
	ErrConfig = errors.New("oledanim: invalid configuration")
	// ErrIO reports an output that cannot be created or written.
	ErrIO = errors.New("oledanim: output error")
	// ErrProcessing reports any other pipeline failure.
	ErrProcessing = errors.New("oledanim: processing failed")
)

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

func processingErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProcessing, fmt.Sprintf(format, args...))
}

func decodeError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
}

func ioError(path string, err error) error {
	if path == "" {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, path, err)
}
