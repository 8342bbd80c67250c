package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/St1cky1/team-dashboard/internal/usecase"
)

type ResourceHandler struct {
	resourceService *usecase.ResourceService
	logger          *zap.Logger
}

func NewResourceHandler(resourceService *usecase.ResourceService, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		logger:          logger,
	}
}

func (h *ResourceHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrResourceNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, entity.ErrNoFieldsToUpdate):
		writeError(w, http.StatusBadRequest, "no fields to update")
	case errors.Is(err, entity.ErrInvalidResourceData):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("resource request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *ResourceHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resources, err := h.resourceService.ListResources(r.Context(), entity.ResourceFilter{
		Category: q.Get("category"),
		Type:     q.Get("type"),
		Status:   q.Get("status"),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

func (h *ResourceHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	resource, err := h.resourceService.GetResource(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resource)
}

func (h *ResourceHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	resource, err := h.resourceService.CreateResource(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resource)
}

func (h *ResourceHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	var req entity.UpdateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	resource, err := h.resourceService.UpdateResource(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resource)
}

func (h *ResourceHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	if err := h.resourceService.DeleteResource(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
