package services

import (
	"errors"
	"fmt"
)

// ErrSizeLimitExceeded matches every *SizeLimitError via errors.Is.
var ErrSizeLimitExceeded = errors.New("upload size limit exceeded")

// SizeLimitError rejects a file larger than the configured upload limit.
// It is returned before any network call is made.
type SizeLimitError struct {
	Filename string
	Size     int64
	LimitMiB int
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("file %q exceeds upload limit of %d MiB", e.Filename, e.LimitMiB)
}

func (e *SizeLimitError) Is(target error) bool { return target == ErrSizeLimitExceeded }
