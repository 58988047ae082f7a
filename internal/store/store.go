package store

import (
	"context"
	"time"
)

type store[T any] struct {
	storage Storage
}

func (s *store[T]) Get(ctx context.Context, key string) (T, error) {
	var obj T
	err := s.storage.Get(ctx, key, &obj)
	return obj, err
}

func (s *store[T]) Set(ctx context.Context, key string, val T, expiresIn time.Duration) error {
	return s.storage.Set(ctx, key, val, expiresIn)
}

func (s *store[T]) Delete(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// Remove fetches and deletes the value in one call, returning nil when the
// key does not exist.
func (s *store[T]) Remove(ctx context.Context, key string) (*T, error) {
	var obj T
	if err := s.storage.Get(ctx, key, &obj); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if err := s.storage.Delete(ctx, key); err != nil && err != ErrNotFound {
		return nil, err
	}
	return &obj, nil
}

func New[T any](storage Storage, keyPrefix string) Store[T] {
	return &store[T]{
		storage: StorageWithPrefix(storage, keyPrefix),
	}
}
