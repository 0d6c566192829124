package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contabil-site/internal/content"
	"contabil-site/internal/core"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, posts ...content.Post) http.Handler {
	t.Helper()

	h := NewHandlers(core.NewDiscardLogger(), content.NewStaticSource(posts))
	h.now = func() time.Time { return fixedNow }

	r := chi.NewRouter()
	r.Get("/sitemap.xml", h.SitemapXML)
	r.Get("/robots.txt", h.RobotsTxt)
	r.Get("/feed.xml", h.FeedXML)
	r.Get("/mapa-do-site", h.SitemapPage)
	r.Get("/api/sitemap", h.SitemapJSON)
	return r
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func samplePosts() []content.Post {
	return []content.Post{
		{ID: 1, Title: "Abertura de Empresa", Date: "2024-01-15", Category: "Empresas", Excerpt: "Passo a passo."},
		{ID: 2, Title: "Data quebrada", Date: "15/01/2024"},
	}
}

func TestSitemapXML(t *testing.T) {
	rec := get(newTestRouter(t, samplePosts()...), "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, body, "<loc>https://contabiligrejinha.com.br/posts/abertura-de-empresa-1</loc>")
	assert.Contains(t, body, "<lastmod>2025-06-01</lastmod>")
	assert.NotContains(t, body, "data-quebrada-2")
}

func TestRobotsTxt(t *testing.T) {
	rec := get(newTestRouter(t), "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Sitemap: https://contabiligrejinha.com.br/sitemap.xml")
}

func TestFeedXML(t *testing.T) {
	rec := get(newTestRouter(t, samplePosts()...), "/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")

	feed, err := gofeed.NewParser().ParseString(rec.Body.String())
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "Abertura de Empresa", feed.Items[0].Title)
	assert.Equal(t, "https://contabiligrejinha.com.br/posts/abertura-de-empresa-1", feed.Items[0].Link)
}

func TestSitemapJSONReportsSkipped(t *testing.T) {
	rec := get(newTestRouter(t, samplePosts()...), "/api/sitemap")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool            `json:"success"`
		Data    SitemapResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data.URLs, 6)
	require.Len(t, resp.Data.Skipped, 1)
	assert.Equal(t, 2, resp.Data.Skipped[0].PostID)
	assert.Contains(t, resp.Data.Skipped[0].Reason, "15/01/2024")
}

func TestSitemapJSONWithoutPosts(t *testing.T) {
	rec := get(newTestRouter(t), "/api/sitemap")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data SitemapResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data.URLs, 5)
	assert.NotNil(t, resp.Data.Skipped)
	assert.Empty(t, resp.Data.Skipped)
}

func TestSitemapPage(t *testing.T) {
	rec := get(newTestRouter(t, samplePosts()...), "/mapa-do-site")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `href="/equipe"`)
	assert.Contains(t, body, `href="/posts/abertura-de-empresa-1"`)
	assert.Contains(t, body, "15/01/2024")
	// Posts with a malformed date are listed without the date
	assert.Contains(t, body, `href="/posts/data-quebrada-2"`)
}
