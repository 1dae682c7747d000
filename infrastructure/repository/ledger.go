// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/vfg2006/tire-sales-api/infrastructure/storage"
	"github.com/vfg2006/tire-sales-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const ledgerDocumentKey = "ledger"

// ErrCorruptDocument indica um documento gravado que não pôde ser interpretado
var ErrCorruptDocument = errors.New("corrupt document")

// LedgerSource é qualquer origem de onde o ledger pode ser carregado
type LedgerSource interface {
	// LoadLedger retorna (nil, nil) quando não há dados gravados
	LoadLedger(ctx context.Context) (*domain.LedgerDocument, error)
}

type LedgerRepository interface {
	LedgerSource
	SaveLedger(ctx context.Context, ledger *domain.Ledger) error
}

type ledgerRepository struct {
	store storage.DocumentStore
}

func NewLedgerRepository(store storage.DocumentStore) LedgerRepository {
	return &ledgerRepository{
		store: store,
	}
}

func (r *ledgerRepository) LoadLedger(ctx context.Context) (*domain.LedgerDocument, error) {
	body, err := r.store.Get(ctx, ledgerDocumentKey)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return decodeLedger(body)
}

func (r *ledgerRepository) SaveLedger(ctx context.Context, ledger *domain.Ledger) error {
	body, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return errors.Wrap(err, "erro ao serializar ledger")
	}

	return r.store.Put(ctx, ledgerDocumentKey, body)
}

// initialLedgerSource lê o snapshot de dados iniciais usado quando o armazenamento principal está vazio
type initialLedgerSource struct {
	fs   afero.Fs
	path string
}

func NewInitialLedgerSource(fs afero.Fs, path string) LedgerSource {
	return &initialLedgerSource{
		fs:   fs,
		path: path,
	}
}

func (s *initialLedgerSource) LoadLedger(ctx context.Context) (*domain.LedgerDocument, error) {
	if s.path == "" {
		return nil, nil
	}

	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao verificar dados iniciais %s", s.path)
	}
	if !exists {
		return nil, nil
	}

	body, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler dados iniciais %s", s.path)
	}

	return decodeLedger(body)
}

func decodeLedger(body []byte) (*domain.LedgerDocument, error) {
	var document domain.LedgerDocument
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, errors.Wrapf(ErrCorruptDocument, "ledger: %v", err)
	}

	return &document, nil
}
