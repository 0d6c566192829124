package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"contabil-site/internal/core"
	"contabil-site/internal/features/catalog/models"
	"contabil-site/internal/features/catalog/services"
)

// Handlers contains the catalog HTTP handlers
type Handlers struct {
	logger  *core.Logger
	service *services.CatalogService
}

// NewHandlers creates a new handlers instance
func NewHandlers(logger *core.Logger, service *services.CatalogService) *Handlers {
	return &Handlers{
		logger:  logger,
		service: service,
	}
}

// PublicList returns the active services in display order
func (h *Handlers) PublicList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// List returns every service, including inactive ones
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	list, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}

// GetBySlug returns one active service by slug
func (h *Handlers) GetBySlug(w http.ResponseWriter, r *http.Request) {
	service, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err == nil && !service.Active {
		err = services.ErrServiceNotFound
	}
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": service})
}

// Create adds a service
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ServiceCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.HandleError(w, core.NewValidationError("Invalid request body", err))
		return
	}

	service, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "data": service})
}

// Update changes a service
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req models.ServiceUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.HandleError(w, core.NewValidationError("Invalid request body", err))
		return
	}

	service, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": service})
}

// Delete removes a service
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		core.HandleError(w, core.NewValidationError("Invalid service id", err))
		return 0, false
	}
	return id, true
}

func (h *Handlers) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrServiceNotFound):
		core.HandleError(w, core.NewNotFoundError("Service not found", err))
	case errors.Is(err, services.ErrDuplicateSlug):
		core.WriteErrorResponse(w, http.StatusConflict, core.NewValidationError("A service with this name already exists", err))
	case errors.Is(err, services.ErrEmptySlug):
		core.HandleError(w, core.NewValidationError("Service name must contain letters or digits", err))
	default:
		var appErr *core.AppError
		if !errors.As(err, &appErr) {
			h.logger.Error("Catalog request failed", "error", err)
		}
		core.HandleError(w, err)
	}
}
