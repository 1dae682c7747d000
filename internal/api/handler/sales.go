package handler

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/tire-sales-api/internal/domain"
	"github.com/vfg2006/tire-sales-api/internal/usecases/ledger"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
	"github.com/vfg2006/tire-sales-api/pkg/utils"
)

type CreateMonthRequest struct {
	Month string `json:"month"`
}

// ListMonths retorna os meses cadastrados, do mais recente para o mais antigo
func ListMonths(service ledger.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		months := service.ListMonths(r.Context())
		sort.Sort(sort.Reverse(sort.StringSlice(months)))

		writeJSON(w, http.StatusOK, months)
	}
}

func CreateMonth(service ledger.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMonthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := service.CreateMonth(r.Context(), req.Month); err != nil {
			writeServiceError(w, err, "Erro ao criar mês")
			return
		}

		writeJSON(w, http.StatusCreated, req)
	}
}

// monthParam lê e valida o parâmetro :month da rota
func monthParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	month := httprouter.ParamsFromContext(r.Context()).ByName("month")
	if !ledger.ValidMonthKey(month) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Mês deve estar no formato YYYY-MM", nil)
		return "", false
	}
	return month, true
}

func saleIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(httprouter.ParamsFromContext(r.Context()).ByName("id"))
	if err != nil || id < 1 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID da venda inválido", nil)
		return 0, false
	}
	return id, true
}

// ListSales retorna as vendas do mês, das mais recentes (maior ID) para as mais antigas
func ListSales(service ledger.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, ok := monthParam(w, r)
		if !ok {
			return
		}

		sales := service.ListSales(r.Context(), month)
		sort.Slice(sales, func(i, j int) bool { return sales[i].ID > sales[j].ID })

		writeJSON(w, http.StatusOK, sales)
	}
}

func CreateSale(service ledger.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, ok := monthParam(w, r)
		if !ok {
			return
		}

		createSale(service, month, w, r)
	}
}

// CreateSaleByDate registra a venda no mês da sua data (YYYY-MM-DD)
func CreateSaleByDate(service ledger.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields domain.SaleFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if fields.Date == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "date é obrigatório", nil)
			return
		}

		month, err := utils.MonthKeyFromDate(*fields.Date)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "date deve estar no formato YYYY-MM-DD", nil)
			return
		}

		sale, err := service.CreateSale(r.Context(), month, fields)
		if err != nil {
			writeServiceError(w, err, "Erro ao registrar venda")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"month": month,
			"sale":  sale,
		})
	}
}

func createSale(service ledger.LedgerService, month string, w http.ResponseWriter, r *http.Request) {
	var fields domain.SaleFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
		return
	}

	sale, err := service.CreateSale(r.Context(), month, fields)
	if err != nil {
		writeServiceError(w, err, "Erro ao registrar venda")
		return
	}

	writeJSON(w, http.StatusCreated, sale)
}

func UpdateSale(service ledger.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, ok := monthParam(w, r)
		if !ok {
			return
		}

		id, ok := saleIDParam(w, r)
		if !ok {
			return
		}

		var fields domain.SaleFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		sale, err := service.UpdateSale(r.Context(), month, id, fields)
		if err != nil {
			writeServiceError(w, err, "Erro ao atualizar venda")
			return
		}

		writeJSON(w, http.StatusOK, sale)
	}
}

func DeleteSale(service ledger.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, ok := monthParam(w, r)
		if !ok {
			return
		}

		id, ok := saleIDParam(w, r)
		if !ok {
			return
		}

		if err := service.DeleteSale(r.Context(), month, id); err != nil {
			writeServiceError(w, err, "Erro ao remover venda")
			return
		}

		logrus.WithFields(logrus.Fields{"month": month, "id": id}).Debug("Venda removida via API")

		w.WriteHeader(http.StatusNoContent)
	}
}
