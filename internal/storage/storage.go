// Package storage provides file attachment storage backends.
// The core only stores bytes and gets a reference back; it never inspects
// file contents.
package storage

import (
	"context"
	"io"
)

// Store persists file contents and returns an opaque reference (a local
// path or an object key) that can be attached to a record.
type Store interface {
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
}
