package ledger

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/tire-sales-api/infrastructure/repository"
	"github.com/vfg2006/tire-sales-api/infrastructure/repository/mocks"
	"github.com/vfg2006/tire-sales-api/infrastructure/storage"
	"github.com/vfg2006/tire-sales-api/internal/config"
	"github.com/vfg2006/tire-sales-api/internal/domain"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		Ledger: config.Ledger{LegacyMonth: "2026-01"},
	}
}

func stringPtr(s string) *string {
	return &s
}

func saleFields(client string, price string, quantity float64) domain.SaleFields {
	unitPrice := decimal.RequireFromString(price)
	return domain.SaleFields{
		Date:      stringPtr("2026-03-15"),
		Client:    stringPtr(client),
		Product:   stringPtr("Pneu aro 14"),
		UnitPrice: &unitPrice,
		Quantity:  &quantity,
		TireType:  stringPtr(string(domain.TireTypeNew)),
	}
}

func newTestService(t *testing.T) (LedgerService, repository.LedgerRepository) {
	t.Helper()

	store, err := storage.NewFileStore(afero.NewMemMapFs(), "data")
	require.NoError(t, err)

	repo := repository.NewLedgerRepository(store)
	service, err := Open(context.Background(), repo, nil, testConfig())
	require.NoError(t, err)

	return service, repo
}

func saleIDs(sales []domain.Sale) []int {
	ids := make([]int, 0, len(sales))
	for _, sale := range sales {
		ids = append(ids, sale.ID)
	}
	return ids
}

func clients(sales []domain.Sale) []string {
	names := make([]string, 0, len(sales))
	for _, sale := range sales {
		names = append(names, sale.Client)
	}
	return names
}

func assertContiguous(t *testing.T, sales []domain.Sale) {
	t.Helper()
	for i, sale := range sales {
		assert.Equal(t, i+1, sale.ID, "IDs devem ser 1..N na ordem do slice")
	}
}

func TestService_ListSalesUnknownMonth(t *testing.T) {
	service, _ := newTestService(t)

	sales := service.ListSales(context.Background(), "2099-01")

	assert.NotNil(t, sales)
	assert.Empty(t, sales)
}

func TestService_CreateMonth(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.CreateMonth(ctx, "2026-05"))
	assert.Equal(t, []string{"2026-05"}, service.ListMonths(ctx))

	err := service.CreateMonth(ctx, "2026-05")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var ledgerErr *LedgerError
	require.True(t, errors.As(err, &ledgerErr))
	assert.Equal(t, apiErrors.ErrAlreadyExists, ledgerErr.Code)

	for _, key := range []string{"2026-5", "05-2026", "2026/05", "", "abcd-ef"} {
		assert.ErrorIs(t, service.CreateMonth(ctx, key), ErrInvalidFormat, key)
	}

	document, err := repo.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Contains(t, document.Months, "2026-05")
	assert.Empty(t, document.Months["2026-05"].Sales)
}

func TestService_CreateSale(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	sale, err := service.CreateSale(ctx, "2026-03", saleFields("Ana", "189.90", 4))
	require.NoError(t, err)

	assert.Equal(t, 1, sale.ID)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("759.60")))
	assert.Equal(t, domain.DesfechoEntrega, sale.Desfecho)
	assert.Equal(t, []string{"2026-03"}, service.ListMonths(ctx))

	second, err := service.CreateSale(ctx, "2026-03", saleFields("Bruno", "50", 1))
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	document, err := repo.LoadLedger(ctx)
	require.NoError(t, err)
	require.Len(t, document.Months["2026-03"].Sales, 2)
	assert.Equal(t, 3, *document.NextID, "contador legado avança a cada venda")
}

func TestService_CreateSaleValidation(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	valid := saleFields("Ana", "100", 1)

	tests := []struct {
		name      string
		mutate    func(f *domain.SaleFields)
		violation string
	}{
		{"Sem data", func(f *domain.SaleFields) { f.Date = nil }, "date"},
		{"Cliente em branco", func(f *domain.SaleFields) { f.Client = stringPtr("  ") }, "client"},
		{"Sem produto", func(f *domain.SaleFields) { f.Product = nil }, "product"},
		{"Sem preço", func(f *domain.SaleFields) { f.UnitPrice = nil }, "unitPrice"},
		{"Sem quantidade", func(f *domain.SaleFields) { f.Quantity = nil }, "quantity"},
		{"Quantidade zero", func(f *domain.SaleFields) { q := 0.0; f.Quantity = &q }, "quantity"},
		{"Quantidade fracionada", func(f *domain.SaleFields) { q := 1.5; f.Quantity = &q }, "quantity"},
		{"Quantidade acima do limite", func(f *domain.SaleFields) { q := 1e19; f.Quantity = &q }, "quantity"},
		{"Quantidade logo acima de int32", func(f *domain.SaleFields) { q := float64(math.MaxInt32) + 1; f.Quantity = &q }, "quantity"},
		{"Sem tipo de pneu", func(f *domain.SaleFields) { f.TireType = nil }, "tireType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := valid
			tt.mutate(&fields)

			sale, err := service.CreateSale(ctx, "2026-03", fields)

			assert.Nil(t, sale)
			assert.ErrorIs(t, err, ErrValidation)

			var ledgerErr *LedgerError
			require.True(t, errors.As(err, &ledgerErr))
			require.Len(t, ledgerErr.Violations, 1)
			assert.Contains(t, ledgerErr.Violations[0], tt.violation)
		})
	}

	assert.Empty(t, service.ListSales(ctx, "2026-03"), "venda inválida não pode ser gravada")
}

func TestService_CreateSaleReportsEveryViolation(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreateSale(context.Background(), "2026-03", domain.SaleFields{})

	var ledgerErr *LedgerError
	require.True(t, errors.As(err, &ledgerErr))
	assert.Len(t, ledgerErr.Violations, 6)
}

func TestService_DeleteThenCreate(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := service.CreateSale(ctx, "2026-03", saleFields(name, "10", 1))
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 3}, saleIDs(service.ListSales(ctx, "2026-03")))

	require.NoError(t, service.DeleteSale(ctx, "2026-03", 2))

	sales := service.ListSales(ctx, "2026-03")
	assert.Equal(t, []int{1, 2}, saleIDs(sales))
	assert.Equal(t, []string{"A", "C"}, clients(sales), "a antiga venda 3 passa a ser 2")

	created, err := service.CreateSale(ctx, "2026-03", saleFields("D", "10", 1))
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)
}

func TestService_UpdateRepositioning(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := service.CreateSale(ctx, "2026-03", saleFields(name, "10", 1))
		require.NoError(t, err)
	}

	updated, err := service.UpdateSale(ctx, "2026-03", 2, saleFields("B editado", "25.50", 2))
	require.NoError(t, err)

	assert.Equal(t, 3, updated.ID, "a venda devolvida ocupa a última posição")
	assert.Equal(t, "B editado", updated.Client)
	assert.True(t, updated.Total.Equal(decimal.RequireFromString("51")))

	sales := service.ListSales(ctx, "2026-03")
	assert.Equal(t, []int{1, 2, 3}, saleIDs(sales))
	assert.Equal(t, []string{"A", "C", "B editado"}, clients(sales))
}

func TestService_UpdateAndDeleteNotFound(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateSale(ctx, "2026-03", saleFields("A", "10", 1))
	require.NoError(t, err)

	tests := []struct {
		name     string
		month    string
		id       int
		wantCode string
	}{
		{"Mês inexistente", "2026-04", 1, apiErrors.ErrMonthNotFound},
		{"Venda inexistente", "2026-03", 7, apiErrors.ErrSaleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdateSale(ctx, tt.month, tt.id, saleFields("X", "1", 1))
			assert.ErrorIs(t, err, ErrNotFound)

			var ledgerErr *LedgerError
			require.True(t, errors.As(err, &ledgerErr))
			assert.Equal(t, tt.wantCode, ledgerErr.Code)

			assert.ErrorIs(t, service.DeleteSale(ctx, tt.month, tt.id), ErrNotFound)
		})
	}

	_, err = service.UpdateSale(ctx, "2026-03", 1, domain.SaleFields{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "A", service.ListSales(ctx, "2026-03")[0].Client)
}

func TestService_ContiguityAfterMixedOperations(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()
	month := "2026-06"

	steps := []func(){
		func() { _, _ = service.CreateSale(ctx, month, saleFields("1", "10", 1)) },
		func() { _, _ = service.CreateSale(ctx, month, saleFields("2", "10", 1)) },
		func() { _, _ = service.CreateSale(ctx, month, saleFields("3", "10", 1)) },
		func() { _ = service.DeleteSale(ctx, month, 1) },
		func() { _, _ = service.CreateSale(ctx, month, saleFields("4", "10", 1)) },
		func() { _, _ = service.UpdateSale(ctx, month, 1, saleFields("5", "10", 3)) },
		func() { _ = service.DeleteSale(ctx, month, 3) },
		func() { _, _ = service.CreateSale(ctx, month, saleFields("6", "10", 1)) },
		func() { _ = service.DeleteSale(ctx, month, 99) },
	}

	for _, step := range steps {
		step()
		sales := service.ListSales(ctx, month)
		assertContiguous(t, sales)
		for _, sale := range sales {
			assert.True(t, sale.Total.Equal(sale.UnitPrice.Mul(decimal.NewFromInt(int64(sale.Quantity)))))
		}
	}
}

func TestService_ListSalesReturnsCopy(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateSale(ctx, "2026-03", saleFields("Ana", "10", 1))
	require.NoError(t, err)

	sales := service.ListSales(ctx, "2026-03")
	sales[0].Client = "alterado"

	assert.Equal(t, "Ana", service.ListSales(ctx, "2026-03")[0].Client)
}

func TestService_CommissionTable(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	assert.Equal(t, domain.DefaultCommissionTable(), service.GetCommissionTable(ctx))

	newRate, recap, recapping := 6.0, 9.0, 12.0
	table, err := service.SetCommissionTable(ctx, domain.CommissionDocument{
		New:       &newRate,
		Recap:     &recap,
		Recapping: &recapping,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionTable{New: 6, Recap: 9, Recapping: 12, Service: 0}, table)

	document, err := repo.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.0, *document.Commissions.Recapping)

	_, err = service.SetCommissionTable(ctx, domain.CommissionDocument{New: &newRate})
	assert.ErrorIs(t, err, ErrValidation)

	var ledgerErr *LedgerError
	require.True(t, errors.As(err, &ledgerErr))
	assert.Len(t, ledgerErr.Violations, 2)
	assert.Equal(t, table, service.GetCommissionTable(ctx))
}

func TestService_PersistenceFailureKeepsMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockLedgerRepository(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().LoadLedger(gomock.Any()).Return(nil, nil),
		repo.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(nil).Times(2),
		repo.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(errors.New("disco cheio")),
	)

	service, err := Open(ctx, repo, nil, testConfig())
	require.NoError(t, err)

	sale, err := service.CreateSale(ctx, "2026-03", saleFields("Ana", "10", 1))

	assert.Nil(t, sale)
	assert.ErrorIs(t, err, ErrPersistence)

	var ledgerErr *LedgerError
	require.True(t, errors.As(err, &ledgerErr))
	assert.Equal(t, apiErrors.ErrPersistence, ledgerErr.Code)

	sales := service.ListSales(ctx, "2026-03")
	require.Len(t, sales, 1, "falha de gravação não desfaz a alteração em memória")
	assertContiguous(t, sales)
}

func TestService_Snapshot(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateSale(ctx, "2026-03", saleFields("Ana", "10", 1))
	require.NoError(t, err)

	snapshot := service.Snapshot(ctx)
	snapshot.Months["2026-03"].Sales[0].Client = "alterado"
	delete(snapshot.Months, "2026-03")

	assert.Equal(t, "Ana", service.ListSales(ctx, "2026-03")[0].Client)
}
