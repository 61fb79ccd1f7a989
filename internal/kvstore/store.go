// Package kvstore provides the string key/value stores that back the balance cache.
//
// Every backend satisfies the same small contract: Get returns ErrNotFound when a
// key is missing, Set overwrites, Delete removes any number of keys and ignores the
// ones that do not exist.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound indicates that the requested key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is a persistent string key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
