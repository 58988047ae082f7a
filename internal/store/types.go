package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Storage is a key-value backend with per-key expiry. Values are stored as
// JSON documents.
type Storage interface {
	Get(ctx context.Context, key string, val any) error
	Set(ctx context.Context, key string, val any, expiresIn time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Store is a typed view over a Storage with a fixed key prefix.
type Store[T any] interface {
	Get(ctx context.Context, key string) (T, error)
	Set(ctx context.Context, key string, val T, expiresIn time.Duration) error
	Delete(ctx context.Context, key string) error
	Remove(ctx context.Context, key string) (*T, error)
}
