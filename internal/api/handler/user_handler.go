package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"resource_hub/internal/api/middleware"
	"resource_hub/internal/app/service"
	"resource_hub/internal/common"
	"resource_hub/internal/domain/model"
)

type UserHandler struct {
	userService *service.UserService
	log         logrus.FieldLogger
}

func NewUserHandler(userService *service.UserService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticate(model.RoleAdmin))
		adminRouter.Get("/", h.listUsers)
		adminRouter.Put("/{id}", h.updateUser)
		adminRouter.Put("/{id}/role", h.updateRole)
		adminRouter.Delete("/{id}", h.deleteUser)
	})
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	user, err := h.userService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) updateRole(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	user, err := h.userService.UpdateRole(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "User deleted"})
}
