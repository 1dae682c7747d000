package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
	"github.com/vfg2006/tire-sales-api/pkg/middleware"
)

// BackupRunner é a parte do serviço de backup exposta pela API
type BackupRunner interface {
	TriggerManualBackup() bool
	GetStatus() map[string]any
}

// RunBackup dispara manualmente o backup do ledger
func RunBackup(service BackupRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de backup não disponível", nil)
			return
		}

		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			logrus.WithField("user_id", claims.UserID).Info("Backup manual solicitado")
		}

		if !service.TriggerManualBackup() {
			apiErrors.WriteError(w, apiErrors.ErrBackupRunning, "Já existe um backup em andamento", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":  "success",
			"message": "Backup iniciado em segundo plano",
		})
	}
}

// GetBackupStatus retorna o status do agendador de backup
func GetBackupStatus(service BackupRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de backup não disponível", nil)
			return
		}

		writeJSON(w, http.StatusOK, service.GetStatus())
	}
}
