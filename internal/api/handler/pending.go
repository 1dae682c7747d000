package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/tire-sales-api/internal/domain"
	"github.com/vfg2006/tire-sales-api/internal/usecases/pending"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
)

// ListPending aceita ?kind=purchase|payment; sem filtro retorna todas
func ListPending(service pending.PendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := domain.PendingKind(r.URL.Query().Get("kind"))

		items, err := service.List(r.Context(), kind)
		if err != nil {
			writeServiceError(w, err, "Erro ao buscar pendências")
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

func CreatePending(service pending.PendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.PendingItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		item, err := service.Create(r.Context(), req)
		if err != nil {
			writeServiceError(w, err, "Erro ao criar pendência")
			return
		}

		writeJSON(w, http.StatusCreated, item)
	}
}

func UpdatePending(service pending.PendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req domain.PendingItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		item, err := service.Update(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err, "Erro ao atualizar pendência")
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

func DeletePending(service pending.PendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err, "Erro ao remover pendência")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
