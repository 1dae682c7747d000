package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/tire-sales-api/infrastructure/storage"
	"github.com/vfg2006/tire-sales-api/internal/domain"
)

const pendingDocumentKey = "pending"

type PendingRepository interface {
	LoadPending(ctx context.Context) ([]domain.PendingItem, error)
	SavePending(ctx context.Context, items []domain.PendingItem) error
}

type pendingDocument struct {
	Items []domain.PendingItem `json:"items"`
}

type pendingRepository struct {
	store storage.DocumentStore
}

func NewPendingRepository(store storage.DocumentStore) PendingRepository {
	return &pendingRepository{
		store: store,
	}
}

func (r *pendingRepository) LoadPending(ctx context.Context) ([]domain.PendingItem, error) {
	body, err := r.store.Get(ctx, pendingDocumentKey)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		return []domain.PendingItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var document pendingDocument
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, errors.Wrapf(ErrCorruptDocument, "pending: %v", err)
	}

	if document.Items == nil {
		document.Items = []domain.PendingItem{}
	}

	return document.Items, nil
}

func (r *pendingRepository) SavePending(ctx context.Context, items []domain.PendingItem) error {
	body, err := json.MarshalIndent(pendingDocument{Items: items}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "erro ao serializar pendências")
	}

	return r.store.Put(ctx, pendingDocumentKey, body)
}
