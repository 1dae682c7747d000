package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/tire-sales-api/internal/domain"
	"github.com/vfg2006/tire-sales-api/internal/usecases/authenticating"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
	"github.com/vfg2006/tire-sales-api/pkg/middleware"
)

// CreateUser cria um novo usuário; a senha chega em texto no campo "password"
func CreateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user domain.User

		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		created, err := service.CreateUser(r.Context(), &user)
		if err != nil {
			writeServiceError(w, err, "Erro ao criar usuário")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

// ListUsers lista todos os usuários
func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := service.ListUsers(r.Context())
		if err != nil {
			writeServiceError(w, err, "Erro ao buscar usuários")
			return
		}

		writeJSON(w, http.StatusOK, users)
	}
}

// UpdateUser atualiza informações do usuário. Vendedores só editam o próprio nome e email.
func UpdateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do usuário não fornecido", nil)
			return
		}

		userClaims, ok := middleware.ClaimsFromContext(r.Context())
		isAdmin := ok && userClaims.UserRole == domain.RoleAdmin
		if !ok || (userClaims.UserID != id && !isAdmin) {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para editar este usuário", nil)
			return
		}

		var updateReq domain.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		updateReq.ID = id

		if (updateReq.Role != nil || updateReq.Active != nil) && !isAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem alterar perfil ou status", nil)
			return
		}

		user, err := service.UpdateUser(r.Context(), &updateReq)
		if err != nil {
			writeServiceError(w, err, "Erro ao atualizar usuário")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
