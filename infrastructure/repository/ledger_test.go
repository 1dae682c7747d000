package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/tire-sales-api/infrastructure/storage"
	"github.com/vfg2006/tire-sales-api/internal/domain"
)

func newMemoryStore(t *testing.T) (afero.Fs, storage.DocumentStore) {
	t.Helper()

	fs := afero.NewMemMapFs()
	store, err := storage.NewFileStore(fs, "data")
	require.NoError(t, err)

	return fs, store
}

func TestLedgerRepository_LoadAbsent(t *testing.T) {
	_, store := newMemoryStore(t)
	repo := NewLedgerRepository(store)

	document, err := repo.LoadLedger(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, document)
}

func TestLedgerRepository_RoundTrip(t *testing.T) {
	_, store := newMemoryStore(t)
	repo := NewLedgerRepository(store)
	ctx := context.Background()

	ledger := &domain.Ledger{
		NextID: 2,
		Months: map[string]*domain.MonthBucket{
			"2026-03": {Sales: []domain.Sale{{
				ID:        1,
				Date:      "2026-03-10",
				Client:    "Oficina do Zé",
				Product:   "Pneu 175/70 R13",
				UnitPrice: decimal.RequireFromString("289.90"),
				Quantity:  4,
				TireType:  domain.TireTypeNew,
				Desfecho:  domain.DesfechoPiratininga,
				Total:     decimal.RequireFromString("1159.60"),
			}}},
		},
		Commissions: domain.DefaultCommissionTable(),
	}

	require.NoError(t, repo.SaveLedger(ctx, ledger))

	document, err := repo.LoadLedger(ctx)
	require.NoError(t, err)
	require.NotNil(t, document)

	require.NotNil(t, document.NextID)
	assert.Equal(t, 2, *document.NextID)
	require.Contains(t, document.Months, "2026-03")

	sale := document.Months["2026-03"].Sales[0]
	assert.Equal(t, "Oficina do Zé", sale.Client)
	assert.True(t, sale.UnitPrice.Equal(decimal.RequireFromString("289.9")))
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("1159.6")))
	assert.Equal(t, domain.DesfechoPiratininga, sale.Desfecho)

	require.NotNil(t, document.Commissions)
	require.NotNil(t, document.Commissions.Recapping)
	assert.Equal(t, 10.0, *document.Commissions.Recapping)
}

func TestLedgerRepository_PersistedShape(t *testing.T) {
	fs, store := newMemoryStore(t)
	repo := NewLedgerRepository(store)

	ledger := &domain.Ledger{
		NextID: 1,
		Months: map[string]*domain.MonthBucket{
			"2026-04": {Sales: []domain.Sale{{
				ID:        1,
				UnitPrice: decimal.NewFromInt(100),
				Quantity:  1,
				TireType:  domain.TireTypeService,
				Desfecho:  domain.DesfechoEntrega,
				Total:     decimal.NewFromInt(100),
			}}},
		},
		Commissions: domain.DefaultCommissionTable(),
	}
	require.NoError(t, repo.SaveLedger(context.Background(), ledger))

	body, err := afero.ReadFile(fs, "data/ledger.json")
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"nextId": 1,
		"months": {"2026-04": {"sales": [{
			"id": 1, "date": "", "client": "", "phone": "", "product": "",
			"unitPrice": 100, "quantity": 1, "tireType": "service",
			"baseTrade": false, "desfecho": "entrega", "total": 100
		}]}},
		"commissions": {"new": 5, "recap": 8, "recapping": 10, "service": 0}
	}`, string(body))
}

func TestLedgerRepository_CorruptDocument(t *testing.T) {
	_, store := newMemoryStore(t)
	require.NoError(t, store.Put(context.Background(), "ledger", []byte(`{"months": [`)))

	_, err := NewLedgerRepository(store).LoadLedger(context.Background())

	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestLedgerRepository_LegacyFlatSales(t *testing.T) {
	_, store := newMemoryStore(t)
	legacy := `{"sales":[{"id":1,"date":"2026-01-05","client":"Ana","product":"Recapagem","unitPrice":120,"quantity":2,"tireType":"recapping","total":240}],"nextId":2}`
	require.NoError(t, store.Put(context.Background(), "ledger", []byte(legacy)))

	document, err := NewLedgerRepository(store).LoadLedger(context.Background())
	require.NoError(t, err)

	assert.Nil(t, document.Months)
	require.Len(t, document.Sales, 1)
	assert.Equal(t, "Ana", document.Sales[0].Client)
	assert.Equal(t, 2, *document.NextID)
}

func TestInitialLedgerSource(t *testing.T) {
	fs := afero.NewMemMapFs()

	tests := []struct {
		name    string
		path    string
		setup   func()
		wantNil bool
		wantErr error
	}{
		{
			name:    "Caminho vazio",
			path:    "",
			wantNil: true,
		},
		{
			name:    "Arquivo inexistente",
			path:    "seed/missing.json",
			wantNil: true,
		},
		{
			name: "Arquivo válido",
			path: "seed/initial-data.json",
			setup: func() {
				require.NoError(t, afero.WriteFile(fs, "seed/initial-data.json",
					[]byte(`{"nextId":1,"months":{"2026-02":{"sales":[]}}}`), 0o644))
			},
		},
		{
			name: "Arquivo corrompido",
			path: "seed/broken.json",
			setup: func() {
				require.NoError(t, afero.WriteFile(fs, "seed/broken.json", []byte(`not json`), 0o644))
			},
			wantNil: true,
			wantErr: ErrCorruptDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			document, err := NewInitialLedgerSource(fs, tt.path).LoadLedger(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			if tt.wantNil {
				assert.Nil(t, document)
			} else {
				require.NotNil(t, document)
				assert.Contains(t, document.Months, "2026-02")
			}
		})
	}
}
