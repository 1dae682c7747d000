package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/tire-sales-api/infrastructure/database/postgres"
	"github.com/vfg2006/tire-sales-api/infrastructure/database/sqlite"
	"github.com/vfg2006/tire-sales-api/infrastructure/repository"
	"github.com/vfg2006/tire-sales-api/infrastructure/storage"
	"github.com/vfg2006/tire-sales-api/internal/api"
	"github.com/vfg2006/tire-sales-api/internal/config"
	"github.com/vfg2006/tire-sales-api/internal/scheduler"
	"github.com/vfg2006/tire-sales-api/internal/usecases/authenticating"
	"github.com/vfg2006/tire-sales-api/internal/usecases/ledger"
	"github.com/vfg2006/tire-sales-api/internal/usecases/pending"
	"github.com/vfg2006/tire-sales-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o formato e o nível de log com base na configuração
	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := documentStore(ctx, cfg)
	defer store.Close()

	ledgerRepo := repository.NewLedgerRepository(store)
	userRepo := repository.NewUserRepository(store)
	pendingRepo := repository.NewPendingRepository(store)

	initialData := repository.NewInitialLedgerSource(afero.NewOsFs(), cfg.Ledger.InitialDataPath)

	ledgerService, err := ledger.Open(ctx, ledgerRepo, initialData, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir o ledger de vendas")
	}

	pendingService := pending.NewService(pendingRepo)

	authenticator := authenticating.NewService(userRepo, cfg)
	if err := authenticator.EnsureAdmin(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao cadastrar o administrador inicial")
	}

	backupService := scheduler.NewBackupService(ledgerService, afero.NewOsFs(), cfg)
	if err := backupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de backup")
	} else {
		logrus.Info("Agendador de backup iniciado com sucesso")
	}

	server, err := api.New(cfg, ledgerService, pendingService, authenticator, backupService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// documentStore escolhe o armazenamento dos documentos conforme STORAGE_DRIVER
func documentStore(ctx context.Context, cfg *config.Config) storage.DocumentStore {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
		}
		logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")

		return migrated(ctx, storage.NewPostgresStore(conn.DB))

	case config.StorageDriverSQLite:
		conn, err := sqlite.NewConnection(ctx, cfg.SQLite)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao abrir o banco SQLite")
		}
		logrus.WithField("path", cfg.SQLite.Path).Info("Banco SQLite aberto com sucesso")

		return migrated(ctx, storage.NewSQLiteStore(conn.DB))

	default:
		store, err := storage.NewFileStore(afero.NewOsFs(), cfg.Storage.DataDir)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao preparar o diretório de dados")
		}
		logrus.WithField("dir", cfg.Storage.DataDir).Info("Armazenamento em arquivos JSON")

		return store
	}
}

func migrated(ctx context.Context, store *storage.SQLStore) storage.DocumentStore {
	if err := store.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao preparar a tabela de documentos")
	}
	return store
}
