package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/passkeeper/internal/filex"
	"github.com/dmitrijs2005/passkeeper/internal/models"
)

// FileStore keeps the session as a JSON file readable by the owner only.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(ctx context.Context) (*models.Session, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return decode(b)
}

func (f *FileStore) Save(ctx context.Context, s *models.Session) error {
	b, err := encode(s)
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(f.path, b, 0o600)
}

// Clear removes the file; a missing file is not an error.
func (f *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
