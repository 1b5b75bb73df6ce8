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

type RequestHandler struct {
	requestService *service.RequestService
	log            logrus.FieldLogger
}

func NewRequestHandler(rs *service.RequestService, log logrus.FieldLogger) *RequestHandler {
	return &RequestHandler{requestService: rs, log: log}
}

func (h *RequestHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Authenticate(""))
		authRouter.Get("/", h.listRequests)
		authRouter.Post("/", h.createRequest)
	})

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticate(model.RoleAdmin))
		adminRouter.Put("/{id}", h.updateRequest)
		adminRouter.Delete("/{id}", h.deleteRequest)
	})
}

func (h *RequestHandler) listRequests(w http.ResponseWriter, r *http.Request) {
	page, err := h.requestService.List(r.Context(), parsePage(r.URL.Query()))
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, page)
}

func (h *RequestHandler) createRequest(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	created, err := h.requestService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *RequestHandler) updateRequest(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	updated, err := h.requestService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *RequestHandler) deleteRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.requestService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Request deleted"})
}
