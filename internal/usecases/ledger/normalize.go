package ledger

import (
	"github.com/vfg2006/tire-sales-api/internal/domain"
)

// DefaultLedger é o ledger vazio usado quando não há dados gravados nem snapshot inicial
func DefaultLedger() *domain.Ledger {
	return &domain.Ledger{
		NextID:      1,
		Months:      map[string]*domain.MonthBucket{},
		Commissions: domain.DefaultCommissionTable(),
	}
}

// IsEmptyDocument indica um documento sem nenhum dado de venda, nem meses nem vendas legadas
func IsEmptyDocument(document *domain.LedgerDocument) bool {
	return document == nil || (len(document.Months) == 0 && len(document.Sales) == 0)
}

// Normalize converte qualquer formato gravado para o formato atual:
//   - completa a tabela de comissões com os valores padrão
//   - move a lista plana de vendas legada para o mês legacyMonth
//   - recalcula os totais e preenche o desfecho ausente
//   - calcula nextId como maior ID + 1 quando ausente
//   - descarta o nextId por mês dos formatos antigos
func Normalize(document *domain.LedgerDocument, legacyMonth string) *domain.Ledger {
	if document == nil {
		return DefaultLedger()
	}

	ledger := &domain.Ledger{
		Months:      make(map[string]*domain.MonthBucket, len(document.Months)),
		Commissions: normalizeCommissions(document.Commissions),
	}

	for key, bucket := range document.Months {
		sales := make([]domain.Sale, 0)
		if bucket != nil {
			sales = append(sales, bucket.Sales...)
		}
		ledger.Months[key] = &domain.MonthBucket{Sales: sales}
	}

	if len(document.Sales) > 0 {
		bucket, ok := ledger.Months[legacyMonth]
		if !ok {
			bucket = &domain.MonthBucket{Sales: make([]domain.Sale, 0, len(document.Sales))}
			ledger.Months[legacyMonth] = bucket
		}
		bucket.Sales = append(bucket.Sales, document.Sales...)
		// IDs da lista plana vinham do contador global e podem ter buracos
		Renumber(bucket.Sales)
	}

	maxID := 0
	for _, bucket := range ledger.Months {
		for i := range bucket.Sales {
			sale := &bucket.Sales[i]
			sale.Total = saleTotal(sale.UnitPrice, sale.Quantity)
			if sale.Desfecho == "" {
				sale.Desfecho = domain.DesfechoEntrega
			}
			if sale.ID > maxID {
				maxID = sale.ID
			}
		}
	}

	if document.NextID != nil {
		ledger.NextID = *document.NextID
	} else {
		ledger.NextID = maxID + 1
	}

	return ledger
}

func normalizeCommissions(document *domain.CommissionDocument) domain.CommissionTable {
	table := domain.DefaultCommissionTable()
	if document == nil {
		return table
	}

	if document.New != nil {
		table.New = *document.New
	}
	if document.Recap != nil {
		table.Recap = *document.Recap
	}
	if document.Recapping != nil {
		table.Recapping = *document.Recapping
	}
	if document.Service != nil {
		table.Service = *document.Service
	}

	return table
}
