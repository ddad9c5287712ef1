// Package storage provides the document-backed vacancy store.
// It defines the Backend interface (port) for the medium holding the
// serialized collection and implementations for local disk, S3, Redis and
// memory, plus the JSON and YAML codecs used to encode the document.
package storage

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned by a Backend when no document has been written yet.
var ErrDocumentNotFound = errors.New("storage: document not found")

// Backend defines the medium holding one serialized vacancy document.
// Implementations replace the whole document on every write.
type Backend interface {
	// Read returns the full document.
	// Returns ErrDocumentNotFound if nothing has been written yet.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the full document with data.
	Write(ctx context.Context, data []byte) error

	// Location describes where the document lives, for logs.
	Location() string
}
