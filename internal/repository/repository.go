package repository

import (
	"context"
	"errors"
)

var ErrMalformedData = errors.New("persisted data is malformed")

type Backend interface {
	Load(ctx context.Context) (Snapshot, error)
	// Persist writes c as one unit.
	Persist(ctx context.Context, c Commit) error
	Close() error
}
