package ledger

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/tire-sales-api/infrastructure/repository"
	"github.com/vfg2006/tire-sales-api/infrastructure/repository/mocks"
	"github.com/vfg2006/tire-sales-api/infrastructure/storage"
	"github.com/vfg2006/tire-sales-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func intPtr(i int) *int {
	return &i
}

func TestOpen_MigratesLegacyFlatSales(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := storage.NewFileStore(fs, "data")
	require.NoError(t, err)

	legacy := `{"sales":[{"id":1,"date":"2026-01-20","client":"Ana","product":"Pneu 175/70","unitPrice":200,"quantity":2,"tireType":"new","total":400}],"nextId":2}`
	require.NoError(t, afero.WriteFile(fs, "data/ledger.json", []byte(legacy), 0o644))

	repo := repository.NewLedgerRepository(store)
	service, err := Open(context.Background(), repo, nil, testConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-01"}, service.ListMonths(context.Background()))
	sales := service.ListSales(context.Background(), "2026-01")
	require.Len(t, sales, 1)
	assert.Equal(t, 1, sales[0].ID)
	assert.Equal(t, "Ana", sales[0].Client)

	body, err := afero.ReadFile(fs, "data/ledger.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"nextId": 2,
		"months": {"2026-01": {"sales": [{
			"id": 1, "date": "2026-01-20", "client": "Ana", "phone": "", "product": "Pneu 175/70",
			"unitPrice": 200, "quantity": 2, "tireType": "new", "baseTrade": false,
			"desfecho": "entrega", "total": 400
		}]}},
		"commissions": {"new": 5, "recap": 8, "recapping": 10, "service": 0}
	}`, string(body), "o formato novo é gravado logo na abertura")
}

func TestOpen_RecoveryProtocol(t *testing.T) {
	withSale := &domain.LedgerDocument{
		NextID: intPtr(2),
		Months: map[string]*domain.MonthBucketDocument{
			"2026-02": {Sales: []domain.Sale{{ID: 1, Client: "Inicial", Quantity: 1}}},
		},
	}
	recap := 7.0
	emptyWithCommissions := &domain.LedgerDocument{
		Months:      map[string]*domain.MonthBucketDocument{},
		Commissions: &domain.CommissionDocument{Recap: &recap},
	}

	tests := []struct {
		name           string
		primary        *domain.LedgerDocument
		primaryErr     error
		fallback       *domain.LedgerDocument
		fallbackErr    error
		wantSaves      int
		wantMonths     []string
		wantRecapRate  float64
		wantFallbackOp bool
	}{
		{
			name:           "Sem dados e sem snapshot inicial",
			wantSaves:      2,
			wantMonths:     []string{},
			wantRecapRate:  8,
			wantFallbackOp: true,
		},
		{
			name:           "Sem dados, usa snapshot inicial",
			fallback:       withSale,
			wantSaves:      1,
			wantMonths:     []string{"2026-02"},
			wantRecapRate:  8,
			wantFallbackOp: true,
		},
		{
			name:           "Documento corrompido, usa snapshot inicial",
			primaryErr:     errors.Wrap(repository.ErrCorruptDocument, "ledger"),
			fallback:       withSale,
			wantSaves:      1,
			wantMonths:     []string{"2026-02"},
			wantRecapRate:  8,
			wantFallbackOp: true,
		},
		{
			name:           "Documento corrompido e snapshot ilegível",
			primaryErr:     errors.New("falha de leitura"),
			fallbackErr:    errors.New("snapshot ilegível"),
			wantSaves:      2,
			wantMonths:     []string{},
			wantRecapRate:  8,
			wantFallbackOp: true,
		},
		{
			name:           "Documento vazio mantém as comissões quando não há snapshot",
			primary:        emptyWithCommissions,
			wantSaves:      1,
			wantMonths:     []string{},
			wantRecapRate:  7,
			wantFallbackOp: true,
		},
		{
			name:           "Documento vazio é substituído pelo snapshot",
			primary:        emptyWithCommissions,
			fallback:       withSale,
			wantSaves:      1,
			wantMonths:     []string{"2026-02"},
			wantRecapRate:  8,
			wantFallbackOp: true,
		},
		{
			name:          "Documento com dados ignora o snapshot",
			primary:       withSale,
			wantSaves:     1,
			wantMonths:    []string{"2026-02"},
			wantRecapRate: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockLedgerRepository(ctrl)
			fallback := mocks.NewMockLedgerSource(ctrl)

			repo.EXPECT().LoadLedger(gomock.Any()).Return(tt.primary, tt.primaryErr)
			if tt.wantFallbackOp {
				fallback.EXPECT().LoadLedger(gomock.Any()).Return(tt.fallback, tt.fallbackErr)
			}

			var saved *domain.Ledger
			repo.EXPECT().
				SaveLedger(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, ledger *domain.Ledger) error {
					saved = ledger
					return nil
				}).
				Times(tt.wantSaves)

			service, err := Open(context.Background(), repo, fallback, testConfig())
			require.NoError(t, err)

			assert.Equal(t, tt.wantMonths, service.ListMonths(context.Background()))
			assert.Equal(t, tt.wantRecapRate, service.GetCommissionTable(context.Background()).Recap)
			require.NotNil(t, saved)
			assert.NotNil(t, saved.Months)
		})
	}
}

func TestOpen_FailsWhenInitialWriteFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockLedgerRepository(ctrl)
	repo.EXPECT().LoadLedger(gomock.Any()).Return(nil, nil)
	repo.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(errors.New("somente leitura"))

	service, err := Open(context.Background(), repo, nil, testConfig())

	assert.Nil(t, service)
	assert.ErrorIs(t, err, ErrPersistence)
}
