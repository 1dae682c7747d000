package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/tire-sales-api/internal/domain"
)

func TestRenumber(t *testing.T) {
	sales := []domain.Sale{{ID: 7}, {ID: 3}, {ID: 3}, {ID: 10}}

	Renumber(sales)
	assert.Equal(t, []int{1, 2, 3, 4}, saleIDs(sales))

	once := append([]domain.Sale(nil), sales...)
	Renumber(sales)
	assert.Equal(t, once, sales, "renumerar duas vezes não muda o resultado")

	Renumber(nil)
}

func TestNormalize(t *testing.T) {
	price := decimal.RequireFromString("150.25")

	tests := []struct {
		name     string
		document *domain.LedgerDocument
		validate func(t *testing.T, ledger *domain.Ledger)
	}{
		{
			name:     "Documento nulo vira ledger padrão",
			document: nil,
			validate: func(t *testing.T, ledger *domain.Ledger) {
				assert.Equal(t, DefaultLedger(), ledger)
			},
		},
		{
			name: "Tabela de comissões sem service",
			document: &domain.LedgerDocument{
				Commissions: &domain.CommissionDocument{New: floatPtr(4), Recap: floatPtr(6), Recapping: floatPtr(9)},
			},
			validate: func(t *testing.T, ledger *domain.Ledger) {
				assert.Equal(t, domain.CommissionTable{New: 4, Recap: 6, Recapping: 9, Service: 0}, ledger.Commissions)
				assert.NotNil(t, ledger.Months)
				assert.Equal(t, 1, ledger.NextID)
			},
		},
		{
			name: "Lista plana legada vai para o mês configurado",
			document: &domain.LedgerDocument{
				NextID: intPtr(9),
				Sales: []domain.Sale{
					{ID: 4, Client: "Ana", UnitPrice: price, Quantity: 2},
					{ID: 8, Client: "Bia", UnitPrice: price, Quantity: 1, Desfecho: domain.DesfechoBelaVista},
				},
			},
			validate: func(t *testing.T, ledger *domain.Ledger) {
				require.Contains(t, ledger.Months, "2026-01")
				sales := ledger.Months["2026-01"].Sales
				assert.Equal(t, []int{1, 2}, saleIDs(sales))
				assert.Equal(t, []string{"Ana", "Bia"}, clients(sales))
				assert.True(t, sales[0].Total.Equal(decimal.RequireFromString("300.50")))
				assert.Equal(t, domain.DesfechoEntrega, sales[0].Desfecho)
				assert.Equal(t, domain.DesfechoBelaVista, sales[1].Desfecho)
				assert.Equal(t, 9, ledger.NextID)
			},
		},
		{
			name: "nextId ausente é calculado pelo maior ID",
			document: &domain.LedgerDocument{
				Months: map[string]*domain.MonthBucketDocument{
					"2026-02": {Sales: []domain.Sale{{ID: 1}, {ID: 2}}, NextID: intPtr(3)},
					"2026-03": {Sales: []domain.Sale{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}, NextID: intPtr(5)},
				},
			},
			validate: func(t *testing.T, ledger *domain.Ledger) {
				assert.Equal(t, 5, ledger.NextID)
				assert.Len(t, ledger.Months["2026-03"].Sales, 4)
			},
		},
		{
			name: "Mês sem lista de vendas",
			document: &domain.LedgerDocument{
				NextID: intPtr(1),
				Months: map[string]*domain.MonthBucketDocument{"2026-04": nil},
			},
			validate: func(t *testing.T, ledger *domain.Ledger) {
				require.Contains(t, ledger.Months, "2026-04")
				assert.NotNil(t, ledger.Months["2026-04"].Sales)
			},
		},
		{
			name: "Total gravado divergente é recalculado",
			document: &domain.LedgerDocument{
				NextID: intPtr(2),
				Months: map[string]*domain.MonthBucketDocument{
					"2026-05": {Sales: []domain.Sale{{ID: 1, UnitPrice: price, Quantity: 3, Total: decimal.NewFromInt(1)}}},
				},
			},
			validate: func(t *testing.T, ledger *domain.Ledger) {
				assert.True(t, ledger.Months["2026-05"].Sales[0].Total.Equal(decimal.RequireFromString("450.75")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Normalize(tt.document, "2026-01"))
		})
	}
}

func TestIsEmptyDocument(t *testing.T) {
	assert.True(t, IsEmptyDocument(nil))
	assert.True(t, IsEmptyDocument(&domain.LedgerDocument{}))
	assert.True(t, IsEmptyDocument(&domain.LedgerDocument{Months: map[string]*domain.MonthBucketDocument{}}))
	assert.False(t, IsEmptyDocument(&domain.LedgerDocument{Sales: []domain.Sale{{ID: 1}}}))
	assert.False(t, IsEmptyDocument(&domain.LedgerDocument{Months: map[string]*domain.MonthBucketDocument{"2026-01": {}}}))
}

func TestValidMonthKey(t *testing.T) {
	assert.True(t, ValidMonthKey("2026-01"))
	assert.False(t, ValidMonthKey("2026-1"))
	assert.False(t, ValidMonthKey(" 2026-01"))
	assert.False(t, ValidMonthKey("2026-01-01"))
}

func floatPtr(f float64) *float64 {
	return &f
}
