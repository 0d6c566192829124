package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contabil-site/internal/core"
	"contabil-site/internal/features/contact/migrations"
	"contabil-site/internal/features/contact/services"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := core.NewDiscardLogger()
	db, err := core.OpenSQLite(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.NewManager(db, logger).Migrate(context.Background()))

	h := NewHandlers(logger, services.NewContactService(db, logger, nil, "contato@example.com"))

	r := chi.NewRouter()
	r.Post("/api/contact", h.Submit)
	r.Get("/admin/api/contacts", h.List)
	r.Get("/admin/api/contacts/stats", h.Stats)
	r.Get("/admin/api/contacts/{id}", h.Get)
	r.Put("/admin/api/contacts/{id}/status", h.UpdateStatus)
	r.Delete("/admin/api/contacts/{id}", h.Delete)
	return r
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestSubmitAndManage(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodPost, "/api/contact",
		`{"name":"Ana","email":"ana@example.com","service":"Folha de Pagamento","message":"Olá"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Success bool           `json:"success"`
		Data    SubmitResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.Data.Reference)
	assert.Equal(t, "new", string(created.Data.Status))

	rec = do(router, http.MethodGet, "/admin/api/contacts?status=new", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.Data.Reference)

	rec = do(router, http.MethodPut, "/admin/api/contacts/1/status", `{"status":"read"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"read"`)

	rec = do(router, http.MethodGet, "/admin/api/contacts/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = do(router, http.MethodPut, "/admin/api/contacts/1/status", `{"status":"spam"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodGet, "/admin/api/contacts?status=spam", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodDelete, "/admin/api/contacts/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodGet, "/admin/api/contacts/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodGet, "/admin/api/contacts/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodPost, "/api/contact", `{"name":"","email":"nope","message":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp core.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, core.ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "name")
	assert.Contains(t, resp.Error.Details, "email")
	assert.Contains(t, resp.Error.Details, "message")

	rec = do(router, http.MethodPost, "/api/contact", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := `{"name":"Ana","email":"ana@example.com","message":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec = do(router, http.MethodPost, "/api/contact", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
