package catalog

import (
	"context"
	"os"
)

// FileState loads an artifact from the local filesystem.
type FileState struct {
	FilePath string
}

func NewFileState(filePath string) *FileState {
	return &FileState{FilePath: filePath}
}

func (f *FileState) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(f.FilePath)
}
