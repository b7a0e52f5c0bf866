// Package store persists small named byte slots, such as the cart, in one of
// several interchangeable backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("slot not found")

// KV is a flat key/value slot store. Get returns ErrNotFound for a key that
// was never written or has been deleted.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty slot key")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid slot key %q", key)
	}
	return nil
}
