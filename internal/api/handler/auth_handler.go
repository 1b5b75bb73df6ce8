package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"resource_hub/internal/api/middleware"
	"resource_hub/internal/app/service"
	"resource_hub/internal/common"
)

type AuthHandler struct {
	authService *service.AuthService
	log         logrus.FieldLogger
}

func NewAuthHandler(authService *service.AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// RegisterRoutes mounts the public auth endpoints. /users/register is
// mounted by the router next to the user admin routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)
	r.Post("/login", h.login)
	r.Post("/register", h.Register)
}

// Register creates an account. The caller's token, when present, decides
// whether an admin account may be created.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	resp, err := h.authService.Register(r.Context(), req, middleware.OptionalIdentity(r.Context()))
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
