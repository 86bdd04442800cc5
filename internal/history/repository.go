package history

import (
	"context"
	"errors"
	"fmt"

	"calcify/internal/storage"
)

// DefaultKey is the storage key of the single-user history.
const DefaultKey = "calcify_history"

// Repository loads and saves a history list under one storage key.
type Repository struct {
	store storage.Store
	key   string
}

func NewRepository(store storage.Store, key string) *Repository {
	if key == "" {
		key = DefaultKey
	}
	return &Repository{store: store, key: key}
}

// Key returns the storage key this repository reads and writes.
func (r *Repository) Key() string {
	return r.key
}

// Load returns the persisted entries. A missing key is an empty history,
// not an error.
func (r *Repository) Load(ctx context.Context) ([]Entry, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", r.key, err)
	}

	return Decode(data)
}

func (r *Repository) Save(ctx context.Context, entries []Entry) error {
	data, err := Encode(entries)
	if err != nil {
		return err
	}

	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("saving %s: %w", r.key, err)
	}
	return nil
}
