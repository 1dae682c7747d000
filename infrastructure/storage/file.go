package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

type FileStore struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "erro ao criar diretório de dados %s", dir)
	}

	return &FileStore{fs: fs, dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, errors.Wrapf(err, "erro ao ler documento %s", key)
	}

	return body, nil
}

// Put grava em um arquivo temporário e renomeia, para que uma falha no meio
// da escrita não deixe o documento truncado
func (s *FileStore) Put(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(key)
	tmp := target + ".tmp"

	if err := afero.WriteFile(s.fs, tmp, body, 0o644); err != nil {
		return errors.Wrapf(err, "erro ao gravar documento %s", key)
	}

	if err := s.fs.Rename(tmp, target); err != nil {
		return errors.Wrapf(err, "erro ao substituir documento %s", key)
	}

	return nil
}

func (s *FileStore) Close() error {
	return nil
}
