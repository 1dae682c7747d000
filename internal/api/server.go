package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/tire-sales-api/internal/api/handler"
	"github.com/vfg2006/tire-sales-api/internal/api/handler/router"
	"github.com/vfg2006/tire-sales-api/internal/config"
	"github.com/vfg2006/tire-sales-api/internal/usecases/authenticating"
	"github.com/vfg2006/tire-sales-api/internal/usecases/ledger"
	"github.com/vfg2006/tire-sales-api/internal/usecases/pending"
	"github.com/vfg2006/tire-sales-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

// NewHandler monta o router com todas as rotas e a cadeia de middlewares globais
func NewHandler(
	config *config.Config,
	ledgerService ledger.LedgerService,
	pendingService pending.PendingService,
	authenticator authenticating.Authenticator,
	backupService handler.BackupRunner,
) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.User(authenticator)...),
		router.WithRoutes(handler.Sales(ledgerService)...),
		router.WithRoutes(handler.Commissions(ledgerService)...),
		router.WithRoutes(handler.Pending(pendingService)...),
		router.WithRoutes(handler.Backup(backupService)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Cors.AllowedOrigins),
		middleware.RateLimitMiddleware(middleware.NewRateLimiter(config.RateLimit.RequestsPerSecond, config.RateLimit.Burst, config.RateLimit.TrustProxy)),
		middleware.AuthMiddleware(authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(
	config *config.Config,
	ledgerService ledger.LedgerService,
	pendingService pending.PendingService,
	authenticator authenticating.Authenticator,
	backupService handler.BackupRunner,
) (*Server, error) {
	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, ledgerService, pendingService, authenticator, backupService),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
