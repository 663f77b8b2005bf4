package voicetime

import (
	"errors"
	"fmt"
)

var (
	ErrStorage      = errors.New("storage failure")
	ErrNoHistory    = errors.New("no voice history yet")
	ErrInvalidLimit = errors.New("history limit must be positive")
)

type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
