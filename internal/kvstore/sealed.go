package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// ErrUnsealable is returned by SealedStore.Get when a stored value cannot be
// verified with any configured key.
var ErrUnsealable = errors.New("stored value could not be decrypted")

// SealedStore encrypts values with fernet before handing them to the wrapped store.
// Keys are stored in the clear.
type SealedStore struct {
	inner Store
	keys  []*fernet.Key
}

// NewSealedStore wraps inner. The first key encrypts; all keys are tried on decrypt,
// which allows key rotation by prepending a new key.
func NewSealedStore(inner Store, keys ...*fernet.Key) (*SealedStore, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("at least one fernet key is required")
	}
	return &SealedStore{inner: inner, keys: keys}, nil
}

// NewSealedStoreFromString decodes encoded fernet keys (base64, 32 bytes each).
func NewSealedStoreFromString(inner Store, encoded ...string) (*SealedStore, error) {
	keys, err := fernet.DecodeKeys(encoded...)
	if err != nil {
		return nil, fmt.Errorf("invalid cache encryption key: %w", err)
	}
	return NewSealedStore(inner, keys...)
}

// Get returns the decrypted value stored under key.
func (s *SealedStore) Get(ctx context.Context, key string) (string, error) {
	token, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, s.keys)
	if msg == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsealable, key)
	}
	return string(msg), nil
}

// Set encrypts value and stores it under key.
func (s *SealedStore) Set(ctx context.Context, key, value string) error {
	token, err := fernet.EncryptAndSign([]byte(value), s.keys[0])
	if err != nil {
		return fmt.Errorf("failed to encrypt value for %s: %w", key, err)
	}
	return s.inner.Set(ctx, key, string(token))
}

// Delete removes the given keys from the wrapped store.
func (s *SealedStore) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}
