package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when the key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// Store defines durable key-value storage for client state
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
