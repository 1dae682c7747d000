package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/tire-sales-api/infrastructure/repository"
	"github.com/vfg2006/tire-sales-api/infrastructure/storage"
	"github.com/vfg2006/tire-sales-api/internal/config"
	"github.com/vfg2006/tire-sales-api/internal/domain"
	"github.com/vfg2006/tire-sales-api/internal/usecases/authenticating"
	"github.com/vfg2006/tire-sales-api/internal/usecases/ledger"
	"github.com/vfg2006/tire-sales-api/internal/usecases/pending"
	"github.com/vfg2006/tire-sales-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Ledger:    config.Ledger{LegacyMonth: "2026-01"},
		RateLimit: config.RateLimit{RequestsPerSecond: 100, Burst: 100},
		Cors:      config.Cors{AllowedOrigins: []string{"http://localhost:5173"}},
		Auth: config.Auth{
			Secret:        "segredo-de-teste",
			TokenTTL:      time.Hour,
			AdminName:     "Administrador",
			AdminEmail:    "admin@borracharia.com",
			AdminPassword: "Admin@2026",
		},
	}

	store, err := storage.NewFileStore(afero.NewMemMapFs(), "data")
	require.NoError(t, err)

	ledgerService, err := ledger.Open(context.Background(), repository.NewLedgerRepository(store), nil, cfg)
	require.NoError(t, err)

	authenticator := authenticating.NewService(repository.NewUserRepository(store), cfg)
	require.NoError(t, authenticator.EnsureAdmin(context.Background()))

	return NewHandler(cfg, ledgerService, pending.NewService(repository.NewPendingRepository(store)), authenticator, nil)
}

func login(t *testing.T, handler http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"email":"ADMIN@borracharia.com ","password":"Admin@2026"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)

	return response.Token
}

func TestServer_AuthenticatedFlow(t *testing.T) {
	handler := newTestHandler(t)
	token := login(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/v1/months/2026-03/sales", strings.NewReader(
		`{"date":"2026-03-02","client":"Ana","product":"Pneu aro 15","unitPrice":"320.50","quantity":1,"tireType":"recap"}`,
	))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.CorrelationIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "admin@borracharia.com", me.Email)
	assert.Equal(t, domain.RoleAdmin, me.Role)
	assert.Empty(t, me.PasswordHash)
}

func TestServer_RejectsMissingToken(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/months", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_WrongPassword(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"email":"admin@borracharia.com","password":"errada"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_BackupUnavailable(t *testing.T) {
	handler := newTestHandler(t)
	token := login(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/v1/backup/run", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
