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

type ResourceHandler struct {
	resourceService *service.ResourceService
	log             logrus.FieldLogger
}

func NewResourceHandler(rs *service.ResourceService, log logrus.FieldLogger) *ResourceHandler {
	return &ResourceHandler{resourceService: rs, log: log}
}

func (h *ResourceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listResources) // GET /api/added-resources?page=1&limit=10&tags=go,rust
	r.Get("/{id}", h.getResource)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticate(model.RoleAdmin))
		adminRouter.Post("/", h.createResource)
		adminRouter.Put("/{id}", h.updateResource)
		adminRouter.Delete("/{id}", h.deleteResource)
	})
}

func (h *ResourceHandler) listResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.resourceService.List(r.Context(), parsePage(q), parseTags(q["tags"]))
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, page)
}

func (h *ResourceHandler) getResource(w http.ResponseWriter, r *http.Request) {
	res, err := h.resourceService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, res)
}

func (h *ResourceHandler) createResource(w http.ResponseWriter, r *http.Request) {
	var req service.CreateResourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	res, err := h.resourceService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, res)
}

func (h *ResourceHandler) updateResource(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateResourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	res, err := h.resourceService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, res)
}

func (h *ResourceHandler) deleteResource(w http.ResponseWriter, r *http.Request) {
	if err := h.resourceService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Resource deleted"})
}
