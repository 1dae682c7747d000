package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/tire-sales-api/internal/usecases/authenticating"
	"github.com/vfg2006/tire-sales-api/internal/usecases/ledger"
	"github.com/vfg2006/tire-sales-api/internal/usecases/pending"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

// writeServiceError converte os erros tipados dos casos de uso no erro padronizado da API
func writeServiceError(w http.ResponseWriter, err error, fallbackMessage string) {
	var ledgerErr *ledger.LedgerError
	if errors.As(err, &ledgerErr) {
		var details any
		if len(ledgerErr.Violations) > 0 {
			details = map[string]any{"violations": ledgerErr.Violations}
		}
		apiErrors.WriteError(w, ledgerErr.Code, ledgerErr.Error(), details)
		return
	}

	var pendingErr *pending.PendingError
	if errors.As(err, &pendingErr) {
		apiErrors.WriteError(w, pendingErr.Code, pendingErr.Error(), nil)
		return
	}

	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), nil)
		return
	}

	logrus.WithError(err).Error(fallbackMessage)
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallbackMessage, nil)
}
