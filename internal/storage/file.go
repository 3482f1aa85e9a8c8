package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Alturino/bookstore/internal/log"
)

// FileStore keeps one file per record under a profile directory. It is the
// default backend and mirrors the persistence model of a browser profile.
type FileStore struct {
	dir string
}

func NewFileStore(c context.Context, dir string) (*FileStore, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NewFileStore").
		Str("dir", dir).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "creating profile directory").Logger()
	logger.Info().Msg("creating profile directory")
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		err = fmt.Errorf("failed creating profile directory=%s with error=%w", dir, err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("created profile directory")

	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed reading record=%s with error=%w", key, err)
	}
	return string(data), nil
}

func (s *FileStore) Set(_ context.Context, key string, value string) error {
	err := os.WriteFile(s.path(key), []byte(value), 0o644)
	if err != nil {
		return fmt.Errorf("failed writing record=%s with error=%w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed removing record=%s with error=%w", key, err)
	}
	return nil
}
