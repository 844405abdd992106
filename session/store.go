package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when no session has the given ID.
var ErrNotFound = errors.New("session: not found")

// Store is the persistence surface for session snapshots.
type Store interface {
	Put(ctx context.Context, st State) error
	Get(ctx context.Context, id string) (State, error)
	List(ctx context.Context) ([]State, error)
	Delete(ctx context.Context, id string) error
}
