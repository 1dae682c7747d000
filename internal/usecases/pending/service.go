package pending

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/tire-sales-api/infrastructure/repository"
	"github.com/vfg2006/tire-sales-api/internal/domain"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
	"github.com/vfg2006/tire-sales-api/pkg/utils"
	"go.uber.org/multierr"
)

type PendingService interface {
	List(ctx context.Context, kind domain.PendingKind) ([]domain.PendingItem, error)
	Create(ctx context.Context, request domain.PendingItemRequest) (*domain.PendingItem, error)
	Update(ctx context.Context, id string, request domain.PendingItemRequest) (*domain.PendingItem, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo       repository.PendingRepository
	mu         sync.Mutex
	now        func() time.Time
	generateID func() (string, error)
}

func NewService(repo repository.PendingRepository) PendingService {
	return &Service{
		repo:       repo,
		now:        time.Now,
		generateID: utils.GenerateID,
	}
}

// List retorna as pendências do tipo informado, ou todas quando kind é vazio, das mais recentes para as mais antigas
func (s *Service) List(ctx context.Context, kind domain.PendingKind) ([]domain.PendingItem, error) {
	if kind != "" && !kind.Valid() {
		return nil, NewPendingError(ErrValidation, apiErrors.ErrInvalidFormat, "", "kind deve ser purchase ou payment")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.PendingItem, 0, len(items))
	for _, item := range items {
		if kind == "" || item.Kind == kind {
			filtered = append(filtered, item)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered, nil
}

func (s *Service) Create(ctx context.Context, request domain.PendingItemRequest) (*domain.PendingItem, error) {
	if err := validate(request); err != nil {
		return nil, err
	}

	id, err := s.generateID()
	if err != nil {
		return nil, NewPendingError(ErrGenerateID, apiErrors.ErrInternalServer, "", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := apply(domain.PendingItem{ID: id, CreatedAt: now}, request)
	item.UpdatedAt = now

	if err := s.save(ctx, append(items, item)); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"id":   item.ID,
		"kind": item.Kind,
	}).Info("Pendência criada")

	return &item, nil
}

// Update substitui todos os campos editáveis, mantendo ID e data de criação
func (s *Service) Update(ctx context.Context, id string, request domain.PendingItemRequest) (*domain.PendingItem, error) {
	if err := validate(request); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}

		item := apply(items[i], request)
		item.UpdatedAt = s.now()
		items[i] = item

		if err := s.save(ctx, items); err != nil {
			return nil, err
		}

		logrus.WithField("id", id).Info("Pendência atualizada")

		return &item, nil
	}

	return nil, NewPendingError(ErrNotFound, apiErrors.ErrPendingNotFound, id, "")
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == id {
			if err := s.save(ctx, append(items[:i], items[i+1:]...)); err != nil {
				return err
			}

			logrus.WithField("id", id).Info("Pendência removida")
			return nil
		}
	}

	return NewPendingError(ErrNotFound, apiErrors.ErrPendingNotFound, id, "")
}

func (s *Service) load(ctx context.Context) ([]domain.PendingItem, error) {
	items, err := s.repo.LoadPending(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao carregar pendências")
		return nil, NewPendingError(ErrPersistence, apiErrors.ErrPersistence, "", "Falha ao carregar pendências")
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, items []domain.PendingItem) error {
	if err := s.repo.SavePending(ctx, items); err != nil {
		logrus.WithError(err).Error("Erro ao gravar pendências")
		return NewPendingError(ErrPersistence, apiErrors.ErrPersistence, "", "Falha ao gravar pendências")
	}
	return nil
}

func validate(request domain.PendingItemRequest) error {
	var violations error

	if !request.Kind.Valid() {
		violations = multierr.Append(violations, errors.New("kind deve ser purchase ou payment"))
	}
	if strings.TrimSpace(request.Description) == "" {
		violations = multierr.Append(violations, errors.New("description é obrigatório"))
	}
	if request.Quantity < 0 {
		violations = multierr.Append(violations, errors.New("quantity não pode ser negativo"))
	}

	if violations == nil {
		return nil
	}

	messages := make([]string, 0)
	for _, violation := range multierr.Errors(violations) {
		messages = append(messages, violation.Error())
	}

	return NewPendingError(ErrValidation, apiErrors.ErrMissingRequiredData, "", strings.Join(messages, "; "))
}

func apply(item domain.PendingItem, request domain.PendingItemRequest) domain.PendingItem {
	item.Kind = request.Kind
	item.Client = strings.TrimSpace(request.Client)
	item.Phone = strings.TrimSpace(request.Phone)
	item.Description = strings.TrimSpace(request.Description)
	item.Quantity = request.Quantity
	item.Amount = request.Amount
	item.Notes = request.Notes
	item.Done = request.Done

	if item.Quantity == 0 {
		item.Quantity = 1
	}

	return item
}
