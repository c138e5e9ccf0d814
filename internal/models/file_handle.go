package models

import (
	"bytes"
	"io"
)

// ByteSource yields the raw content of a selected file.
// Each call to Open returns an independent reader.
type ByteSource interface {
	Open() (io.ReadCloser, error)
}

// FileHandle is a read-only reference to a user-selected file.
// Handles are compared by identity: a new selection always produces a new handle.
type FileHandle struct {
	ID       string
	Name     string
	MimeType string
	Size     int64
	Source   ByteSource
}

// BytesSource serves an in-memory buffer.
type BytesSource []byte

// Open implements ByteSource.
func (b BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}
