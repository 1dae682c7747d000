// Package ledger mantém as vendas mensais da borracharia, a numeração dos IDs
// por mês e a tabela de comissões.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/tire-sales-api/infrastructure/repository"
	"github.com/vfg2006/tire-sales-api/internal/config"
	"github.com/vfg2006/tire-sales-api/internal/domain"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
)

type LedgerService interface {
	ListMonths(ctx context.Context) []string
	CreateMonth(ctx context.Context, key string) error
	ListSales(ctx context.Context, month string) []domain.Sale
	CreateSale(ctx context.Context, month string, fields domain.SaleFields) (*domain.Sale, error)
	UpdateSale(ctx context.Context, month string, id int, fields domain.SaleFields) (*domain.Sale, error)
	DeleteSale(ctx context.Context, month string, id int) error
	GetCommissionTable(ctx context.Context) domain.CommissionTable
	SetCommissionTable(ctx context.Context, document domain.CommissionDocument) (domain.CommissionTable, error)
	CommissionSummary(ctx context.Context, month string) domain.CommissionSummary
	Snapshot(ctx context.Context) domain.Ledger
}

// Service é o dono do ledger em memória. Todas as operações passam pelo mesmo
// mutex: validar, alterar, renumerar e gravar acontecem sem intercalação.
type Service struct {
	repo   repository.LedgerRepository
	ledger *domain.Ledger
	mu     sync.Mutex
}

// Open carrega o ledger gravado, recorre ao snapshot inicial quando não há
// dados, normaliza formatos antigos e grava o resultado.
func Open(
	ctx context.Context,
	repo repository.LedgerRepository,
	fallback repository.LedgerSource,
	cfg *config.Config,
) (LedgerService, error) {
	document, err := repo.LoadLedger(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Não foi possível carregar o ledger gravado, tentando dados iniciais")
		document = nil
	}

	if IsEmptyDocument(document) && fallback != nil {
		initial, err := fallback.LoadLedger(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Não foi possível carregar os dados iniciais")
		}
		if initial != nil {
			logrus.Info("Ledger restaurado a partir dos dados iniciais")
			document = initial
		}
	}

	var ledger *domain.Ledger
	if document == nil {
		logrus.Info("Nenhum ledger encontrado, iniciando ledger vazio")
		ledger = DefaultLedger()
		if err := repo.SaveLedger(ctx, ledger); err != nil {
			return nil, NewLedgerError(ErrPersistence, apiErrors.ErrPersistence, err.Error())
		}
	} else {
		ledger = Normalize(document, cfg.Ledger.LegacyMonth)
	}

	if err := repo.SaveLedger(ctx, ledger); err != nil {
		return nil, NewLedgerError(ErrPersistence, apiErrors.ErrPersistence, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"months": len(ledger.Months),
		"nextId": ledger.NextID,
	}).Info("Ledger carregado")

	return &Service{
		repo:   repo,
		ledger: ledger,
	}, nil
}

// persist grava o ledger inteiro. Em caso de falha a alteração em memória é mantida.
func (s *Service) persist(ctx context.Context, operation string) error {
	if err := s.repo.SaveLedger(ctx, s.ledger); err != nil {
		logrus.WithError(err).WithField("operation", operation).Error("Erro ao gravar ledger")
		return NewLedgerError(ErrPersistence, apiErrors.ErrPersistence, "Falha ao gravar as alterações")
	}
	return nil
}

func (s *Service) ListMonths(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	months := make([]string, 0, len(s.ledger.Months))
	for key := range s.ledger.Months {
		months = append(months, key)
	}
	sort.Strings(months)

	return months
}

func (s *Service) CreateMonth(ctx context.Context, key string) error {
	if !ValidMonthKey(key) {
		return NewLedgerError(ErrInvalidFormat, apiErrors.ErrInvalidFormat, fmt.Sprintf("mês %q", key))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ledger.Months[key]; exists {
		return &LedgerError{Err: ErrAlreadyExists, Code: apiErrors.ErrAlreadyExists, Month: key}
	}

	s.ledger.Months[key] = &domain.MonthBucket{Sales: []domain.Sale{}}

	logrus.WithField("month", key).Info("Mês criado")

	return s.persist(ctx, "create_month")
}

// ListSales devolve uma cópia das vendas na ordem de inserção; mês inexistente retorna lista vazia
func (s *Service) ListSales(ctx context.Context, month string) []domain.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.ledger.Months[month]
	if !ok {
		return []domain.Sale{}
	}

	sales := make([]domain.Sale, len(bucket.Sales))
	copy(sales, bucket.Sales)

	return sales
}

func (s *Service) CreateSale(ctx context.Context, month string, fields domain.SaleFields) (*domain.Sale, error) {
	if violations := validateSaleFields(fields); violations != nil {
		return nil, NewValidationError(apiErrors.ErrMissingRequiredData, violations)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.ledger.Months[month]
	if !ok {
		bucket = &domain.MonthBucket{Sales: []domain.Sale{}}
		s.ledger.Months[month] = bucket
	}

	sale := buildSale(fields)
	sale.ID = len(bucket.Sales) + 1
	bucket.Sales = append(bucket.Sales, sale)
	s.ledger.NextID++

	logrus.WithFields(logrus.Fields{
		"month": month,
		"id":    sale.ID,
		"total": sale.Total.StringFixed(2),
	}).Info("Venda registrada")

	if err := s.persist(ctx, "create_sale"); err != nil {
		return nil, err
	}

	return &sale, nil
}

// UpdateSale substitui todos os campos da venda. O registro alterado vai para o
// fim do mês e o mês é renumerado, então a venda devolvida é sempre a última
// posição, com ID igual ao total de vendas do mês. As vendas que estavam depois
// da posição antiga também mudam de ID, cada uma perdendo uma unidade.
func (s *Service) UpdateSale(ctx context.Context, month string, id int, fields domain.SaleFields) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, index, err := s.findSale(month, id)
	if err != nil {
		return nil, err
	}

	if violations := validateSaleFields(fields); violations != nil {
		return nil, NewValidationError(apiErrors.ErrMissingRequiredData, violations)
	}

	updated := buildSale(fields)
	bucket.Sales = append(bucket.Sales[:index], bucket.Sales[index+1:]...)
	bucket.Sales = append(bucket.Sales, updated)
	Renumber(bucket.Sales)

	sale := bucket.Sales[len(bucket.Sales)-1]

	logrus.WithFields(logrus.Fields{
		"month":  month,
		"old_id": id,
		"new_id": sale.ID,
	}).Info("Venda atualizada")

	if err := s.persist(ctx, "update_sale"); err != nil {
		return nil, err
	}

	return &sale, nil
}

func (s *Service) DeleteSale(ctx context.Context, month string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, index, err := s.findSale(month, id)
	if err != nil {
		return err
	}

	bucket.Sales = append(bucket.Sales[:index], bucket.Sales[index+1:]...)
	Renumber(bucket.Sales)

	logrus.WithFields(logrus.Fields{
		"month":     month,
		"id":        id,
		"remaining": len(bucket.Sales),
	}).Info("Venda removida")

	return s.persist(ctx, "delete_sale")
}

// findSale deve ser chamado com o mutex travado
func (s *Service) findSale(month string, id int) (*domain.MonthBucket, int, error) {
	bucket, ok := s.ledger.Months[month]
	if !ok {
		return nil, 0, NewSaleError(ErrNotFound, apiErrors.ErrMonthNotFound, month, id, fmt.Sprintf("mês %s não encontrado", month))
	}

	for i := range bucket.Sales {
		if bucket.Sales[i].ID == id {
			return bucket, i, nil
		}
	}

	return nil, 0, NewSaleError(ErrNotFound, apiErrors.ErrSaleNotFound, month, id, fmt.Sprintf("venda %d não encontrada em %s", id, month))
}

func (s *Service) GetCommissionTable(ctx context.Context) domain.CommissionTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Commissions
}

func (s *Service) SetCommissionTable(ctx context.Context, document domain.CommissionDocument) (domain.CommissionTable, error) {
	if violations := validateCommissionDocument(document); violations != nil {
		return domain.CommissionTable{}, NewValidationError(apiErrors.ErrMissingRequiredData, violations)
	}

	table := domain.CommissionTable{
		New:       *document.New,
		Recap:     *document.Recap,
		Recapping: *document.Recapping,
	}
	if document.Service != nil {
		table.Service = *document.Service
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.Commissions = table

	logrus.WithFields(logrus.Fields{
		"new":       table.New,
		"recap":     table.Recap,
		"recapping": table.Recapping,
		"service":   table.Service,
	}).Info("Tabela de comissões atualizada")

	if err := s.persist(ctx, "set_commissions"); err != nil {
		return domain.CommissionTable{}, err
	}

	return table, nil
}

// Snapshot devolve uma cópia profunda do ledger, usada pelo backup
func (s *Service) Snapshot(ctx context.Context) domain.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Clone()
}
