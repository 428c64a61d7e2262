package mock

import (
	"context"
	"io"

	"github.com/middlemost/edgevox"
)

var _ edgevox.FileService = &FileService{}

type FileService struct {
	CreateFileFn func(ctx context.Context, f *edgevox.File, r io.Reader) error
}

func (s *FileService) CreateFile(ctx context.Context, f *edgevox.File, r io.Reader) error {
	return s.CreateFileFn(ctx, f, r)
}
