package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"contabil-site/internal/core"
	"contabil-site/internal/features/contact/models"
	"contabil-site/internal/features/contact/services"
)

// maxBodyBytes bounds the public form payload
const maxBodyBytes = 64 << 10

// Handlers contains the contact feature HTTP handlers
type Handlers struct {
	logger  *core.Logger
	service *services.ContactService
}

// NewHandlers creates a new handlers instance
func NewHandlers(logger *core.Logger, service *services.ContactService) *Handlers {
	return &Handlers{
		logger:  logger,
		service: service,
	}
}

// SubmitResponse is returned to the site after a successful submission
type SubmitResponse struct {
	Reference string        `json:"reference"`
	Status    models.Status `json:"status"`
}

// Submit handles the public contact form
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var form models.ContactCreate
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		core.HandleError(w, core.NewValidationError("Invalid request body", err))
		return
	}

	contact, err := h.service.Submit(r.Context(), form)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    SubmitResponse{Reference: contact.Reference, Status: contact.Status},
	})
}

// List returns contacts, optionally filtered by ?status=
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.List(r.Context(), models.Status(r.URL.Query().Get("status")))
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": contacts})
}

// Get returns one contact
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	contact, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": contact})
}

// UpdateStatus changes the workflow status of a contact
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req models.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.HandleError(w, core.NewValidationError("Invalid request body", err))
		return
	}

	contact, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": contact})
}

// Delete removes a contact
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

// Stats returns contact counts per status
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": stats})
}

func (h *Handlers) parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		core.HandleError(w, core.NewValidationError("Invalid contact id", err))
		return 0, false
	}
	return id, true
}

func (h *Handlers) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrContactNotFound):
		core.HandleError(w, core.NewNotFoundError("Contact not found", err))
	case errors.Is(err, services.ErrInvalidStatus):
		core.HandleError(w, core.NewValidationError("Status must be one of new, read, answered, archived", err))
	default:
		var appErr *core.AppError
		if !errors.As(err, &appErr) {
			h.logger.Error("Contact request failed", "error", err)
		}
		core.HandleError(w, err)
	}
}
