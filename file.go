package edgevox

import (
	"context"
	"io"
)

// File errors.
const (
	ErrFilePathRequired = Error("file path required")
)

// File represents an audio file written to disk.
type File struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// FileService represents a service for writing audio files.
type FileService interface {
	// CreateFile writes the contents of r to f.Path, creating parent
	// directories as needed, and sets f.Size to the written size.
	CreateFile(ctx context.Context, f *File, r io.Reader) error
}
