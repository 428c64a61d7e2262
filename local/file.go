package local

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/middlemost/edgevox"
)

// Ensure service implements interface.
var _ edgevox.FileService = &FileService{}

// FileService represents a service for writing files to the local filesystem.
type FileService struct{}

// NewFileService returns a new instance of FileService.
func NewFileService() *FileService {
	return &FileService{}
}

// CreateFile creates a new file at f.Path with the contents of r.
// Missing parent directories are created.
func (s *FileService) CreateFile(ctx context.Context, f *edgevox.File, r io.Reader) error {
	if f.Path == "" {
		return edgevox.ErrFilePathRequired
	}

	// Ensure parent path exists.
	if err := os.MkdirAll(filepath.Dir(f.Path), 0777); err != nil {
		return err
	}

	// Create file inside directory.
	file, err := os.Create(f.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Copy contents.
	if _, err := io.Copy(file, r); err != nil {
		os.Remove(file.Name())
		return err
	}

	// Close file handle.
	if err := file.Close(); err != nil {
		return err
	}

	// Read size.
	fi, err := os.Stat(f.Path)
	if err != nil {
		return err
	}
	f.Size = fi.Size()

	return nil
}
