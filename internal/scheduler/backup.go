package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-co-op/gocron"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/tire-sales-api/internal/config"
	"github.com/vfg2006/tire-sales-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	backupPrefix     = "ledger-"
	backupSuffix     = ".json"
	backupTimeLayout = "20060102-150405"
)

// LedgerSnapshotter é a parte do ledger usada pelo backup: apenas leitura
type LedgerSnapshotter interface {
	Snapshot(ctx context.Context) domain.Ledger
}

// BackupConfig representa a configuração do agendador de backup do ledger
type BackupConfig struct {
	CronSchedule string
	Dir          string
	Retention    int
	Enabled      bool
}

// BackupService gera cópias periódicas do ledger em arquivos JSON.
// Uma falha de backup é registrada no log e nunca afeta as operações do ledger.
type BackupService struct {
	scheduler             *gocron.Scheduler
	config                BackupConfig
	fs                    afero.Fs
	ledger                LedgerSnapshotter
	now                   func() time.Time
	backupRunning         bool
	backupMutex           sync.Mutex
	lastBackupStartedAt   time.Time
	lastBackupCompletedAt time.Time
	lastBackupFile        string
	lastBackupSize        int64
	lastBackupError       string
}

// NewBackupService cria uma nova instância do serviço de backup
func NewBackupService(ledger LedgerSnapshotter, fs afero.Fs, appConfig *config.Config) *BackupService {
	backupConfig := BackupConfig{
		CronSchedule: appConfig.Backup.CronSchedule,
		Dir:          appConfig.Backup.Dir,
		Retention:    appConfig.Backup.Retention,
		Enabled:      appConfig.Backup.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  backupConfig.CronSchedule,
		"dir":            backupConfig.Dir,
		"retention":      backupConfig.Retention,
		"backup_enabled": backupConfig.Enabled,
	}).Info("Configuração do agendador de backup carregada")

	return &BackupService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    backupConfig,
		fs:        fs,
		ledger:    ledger,
		now:       time.Now,
	}
}

// Start inicia o agendador
func (s *BackupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Backup agendado desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de backup do ledger")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runBackup(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar backup do ledger: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de backup do ledger")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualBackup dispara um backup em segundo plano. Retorna false se já houver um em andamento.
func (s *BackupService) TriggerManualBackup() bool {
	s.backupMutex.Lock()
	running := s.backupRunning
	s.backupMutex.Unlock()

	if running {
		logrus.Info("Backup já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando backup manual do ledger")
	go s.runBackup(context.Background())

	return true
}

func (s *BackupService) runBackup(ctx context.Context) {
	if _, err := s.RunBackup(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao gerar backup do ledger")
	}
}

// RunBackup grava o snapshot atual do ledger e remove os backups além da retenção
func (s *BackupService) RunBackup(ctx context.Context) (string, error) {
	s.backupMutex.Lock()
	if s.backupRunning {
		s.backupMutex.Unlock()
		return "", fmt.Errorf("backup já em andamento")
	}
	s.backupRunning = true
	startTime := s.now()
	s.lastBackupStartedAt = startTime
	s.backupMutex.Unlock()

	var (
		path string
		size int64
		err  error
	)

	defer func() {
		s.backupMutex.Lock()
		defer s.backupMutex.Unlock()

		s.backupRunning = false
		if err != nil {
			s.lastBackupError = err.Error()
			return
		}
		s.lastBackupError = ""
		s.lastBackupCompletedAt = s.now()
		s.lastBackupFile = path
		s.lastBackupSize = size
	}()

	path, size, err = s.writeSnapshot(ctx, startTime)
	if err != nil {
		return "", err
	}

	removed, err := s.prune()
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"file":     path,
		"size":     humanize.Bytes(uint64(size)),
		"removed":  removed,
		"duration": time.Since(startTime).String(),
	}).Info("Backup do ledger concluído")

	return path, nil
}

func (s *BackupService) writeSnapshot(ctx context.Context, at time.Time) (string, int64, error) {
	snapshot := s.ledger.Snapshot(ctx)

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("erro ao serializar snapshot: %w", err)
	}

	if err := s.fs.MkdirAll(s.config.Dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("erro ao criar diretório de backup: %w", err)
	}

	path := filepath.Join(s.config.Dir, backupPrefix+at.Format(backupTimeLayout)+backupSuffix)
	if err := afero.WriteFile(s.fs, path, body, 0o644); err != nil {
		return "", 0, fmt.Errorf("erro ao gravar backup %s: %w", path, err)
	}

	return path, int64(len(body)), nil
}

// prune mantém apenas os backups mais recentes, conforme a retenção
func (s *BackupService) prune() (int, error) {
	backups, err := s.listBackups()
	if err != nil {
		return 0, err
	}

	if len(backups) <= s.config.Retention {
		return 0, nil
	}

	expired := backups[:len(backups)-s.config.Retention]
	for _, name := range expired {
		if err := s.fs.Remove(filepath.Join(s.config.Dir, name)); err != nil {
			return 0, fmt.Errorf("erro ao remover backup antigo %s: %w", name, err)
		}
	}

	return len(expired), nil
}

// listBackups retorna os arquivos de backup do mais antigo para o mais recente
func (s *BackupService) listBackups() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.config.Dir)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar backups: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		names = append(names, name)
	}

	// O timestamp no nome garante que a ordem alfabética é a cronológica
	sort.Strings(names)

	return names, nil
}

// GetStatus retorna o status atual do agendador
func (s *BackupService) GetStatus() map[string]any {
	s.backupMutex.Lock()
	defer s.backupMutex.Unlock()

	status := map[string]any{
		"backup_enabled":           s.config.Enabled,
		"backup_cron":              s.config.CronSchedule,
		"backup_dir":               s.config.Dir,
		"retention_policy":         fmt.Sprintf("mantém os %d backups mais recentes", s.config.Retention),
		"backup_running":           s.backupRunning,
		"last_backup_started_at":   s.lastBackupStartedAt,
		"last_backup_completed_at": s.lastBackupCompletedAt,
		"last_backup_file":         s.lastBackupFile,
		"last_backup_error":        s.lastBackupError,
	}

	if !s.lastBackupCompletedAt.IsZero() {
		status["last_backup_size"] = humanize.Bytes(uint64(s.lastBackupSize))
		status["last_backup_ago"] = humanize.RelTime(s.lastBackupCompletedAt, s.now(), "atrás", "a partir de agora")
	}

	return status
}
