package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when a key has never been set.
var ErrNotFound = errors.New("key not found")

// Store is an opaque key/value store. Implementations are safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Store kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open returns the store of the given kind. path is a directory for file
// stores and a database file for sqlite stores; memory stores ignore it.
func Open(kind, path string) (Store, error) {
	switch kind {
	case "", KindMemory:
		return NewMemory(), nil
	case KindFile:
		return NewFile(path)
	case KindSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
