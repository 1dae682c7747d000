package handler

import (
	"net/http"

	"github.com/vfg2006/tire-sales-api/internal/domain"
	"github.com/vfg2006/tire-sales-api/internal/usecases/ledger"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
)

func GetCommissionTable(service ledger.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, service.GetCommissionTable(r.Context()))
	}
}

// SetCommissionTable substitui a tabela inteira; new, recap e recapping são obrigatórios
func SetCommissionTable(service ledger.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var document domain.CommissionDocument
		if err := json.NewDecoder(r.Body).Decode(&document); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		table, err := service.SetCommissionTable(r.Context(), document)
		if err != nil {
			writeServiceError(w, err, "Erro ao atualizar comissões")
			return
		}

		writeJSON(w, http.StatusOK, table)
	}
}

func GetCommissionSummary(service ledger.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, ok := monthParam(w, r)
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, service.CommissionSummary(r.Context(), month))
	}
}
