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
	"contabil-site/internal/features/catalog/migrations"
	"contabil-site/internal/features/catalog/models"
	"contabil-site/internal/features/catalog/services"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := core.NewDiscardLogger()
	db, err := core.OpenSQLite(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.NewManager(db, logger).Migrate(context.Background()))

	h := NewHandlers(logger, services.NewCatalogService(db, logger))

	r := chi.NewRouter()
	r.Get("/api/services", h.PublicList)
	r.Get("/api/services/{slug}", h.GetBySlug)
	r.Get("/admin/api/services", h.List)
	r.Post("/admin/api/services", h.Create)
	r.Put("/admin/api/services/{id}", h.Update)
	r.Delete("/admin/api/services/{id}", h.Delete)
	return r
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

type serviceResponse struct {
	Success bool            `json:"success"`
	Data    *models.Service `json:"data"`
}

type listResponse struct {
	Success bool              `json:"success"`
	Data    []*models.Service `json:"data"`
}

func TestCatalogLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodPost, "/admin/api/services", `{"name":"Abertura de Empresa","position":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created serviceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "abertura-de-empresa", created.Data.Slug)

	rec = do(router, http.MethodPost, "/admin/api/services", `{"name":"Abertura de empresa"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(router, http.MethodPost, "/admin/api/services", `{"name":"Consultoria","position":2,"active":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(router, http.MethodGet, "/api/services", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var public listResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&public))
	require.Len(t, public.Data, 1)
	assert.Equal(t, "abertura-de-empresa", public.Data[0].Slug)

	rec = do(router, http.MethodGet, "/admin/api/services", "")
	var all listResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
	assert.Len(t, all.Data, 2)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/services/consultoria", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/services/abertura-de-empresa", "").Code)

	rec = do(router, http.MethodPut, "/admin/api/services/1", `{"name":"Abertura e Legalização"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated serviceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, "abertura-e-legalizacao", updated.Data.Slug)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/admin/api/services/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/admin/api/services/1", "").Code)
}

func TestCatalogBadRequests(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/admin/api/services", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/admin/api/services", `{"name":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/admin/api/services", `{"name":"???"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPut, "/admin/api/services/abc", `{}`).Code)
}
