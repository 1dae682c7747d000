package handler

import (
	"net/http"

	"github.com/vfg2006/tire-sales-api/internal/api/handler/router"
	"github.com/vfg2006/tire-sales-api/internal/usecases/authenticating"
	"github.com/vfg2006/tire-sales-api/internal/usecases/ledger"
	"github.com/vfg2006/tire-sales-api/internal/usecases/pending"
	"github.com/vfg2006/tire-sales-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Sales(service ledger.LedgerService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/months",
			Method:      http.MethodGet,
			Handler:     ListMonths(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/months",
			Method:      http.MethodPost,
			Handler:     CreateMonth(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/months/:month/sales",
			Method:      http.MethodGet,
			Handler:     ListSales(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/months/:month/sales",
			Method:      http.MethodPost,
			Handler:     CreateSale(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/months/:month/sales/:id",
			Method:      http.MethodPut,
			Handler:     UpdateSale(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/months/:month/sales/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteSale(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sales",
			Method:      http.MethodPost,
			Handler:     CreateSaleByDate(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Commissions(service ledger.LedgerService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/commissions",
			Method:      http.MethodGet,
			Handler:     GetCommissionTable(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/commissions",
			Method:      http.MethodPut,
			Handler:     SetCommissionTable(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/months/:month/commissions",
			Method:      http.MethodGet,
			Handler:     GetCommissionSummary(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Pending(service pending.PendingService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/pending",
			Method:      http.MethodGet,
			Handler:     ListPending(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/pending",
			Method:      http.MethodPost,
			Handler:     CreatePending(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/pending/:id",
			Method:      http.MethodPut,
			Handler:     UpdatePending(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/pending/:id",
			Method:      http.MethodDelete,
			Handler:     DeletePending(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Backup(service BackupRunner) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/backup/run",
			Method:      http.MethodPost,
			Handler:     RunBackup(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/backup/status",
			Method:      http.MethodGet,
			Handler:     GetBackupStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
