package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"contabil-site/internal/content"
	"contabil-site/internal/core"
	"contabil-site/internal/sitemap"
	"contabil-site/internal/slug"
)

// PostSummary is a post as listed by the blog index
type PostSummary struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	URL      string `json:"url"`
	Excerpt  string `json:"excerpt"`
	Category string `json:"category"`
	Date     string `json:"date"`
	ReadTime string `json:"readTime"`
}

// PostDetail is a full post
type PostDetail struct {
	PostSummary
	Content string `json:"content"`
}

func summarize(p content.Post) PostSummary {
	return PostSummary{
		ID:       p.ID,
		Title:    p.Title,
		Slug:     p.Slug(),
		URL:      sitemap.PostURL(p),
		Excerpt:  p.Excerpt,
		Category: p.Category,
		Date:     p.Date,
		ReadTime: p.ReadTime,
	}
}

// Handlers serves the posts of the static content source
type Handlers struct {
	logger *core.Logger
	source *content.StaticSource
}

// NewHandlers creates a new handlers instance
func NewHandlers(logger *core.Logger, source *content.StaticSource) *Handlers {
	return &Handlers{
		logger: logger,
		source: source,
	}
}

// List returns the posts in source order, optionally filtered by ?category=
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	posts := h.source.Posts()
	if category := r.URL.Query().Get("category"); category != "" {
		posts = h.source.ByCategory(category)
	}

	summaries := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, summarize(p))
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": summaries})
}

// Get resolves a post from its slug. Only the trailing id is significant, so
// an outdated title part is redirected to the canonical slug.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	requested := chi.URLParam(r, "slug")

	id, ok := slug.ExtractIDFromSlug(requested)
	if !ok {
		core.HandleError(w, core.NewNotFoundError("Post not found", nil))
		return
	}

	post, ok := h.source.Get(id)
	if !ok {
		core.HandleError(w, core.NewNotFoundError("Post not found", nil))
		return
	}

	if canonical := post.Slug(); canonical != requested {
		h.logger.Debug("Redirecting to canonical post slug", "requested", requested, "canonical", canonical)
		http.Redirect(w, r, "/api/posts/"+canonical, http.StatusMovedPermanently)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    PostDetail{PostSummary: summarize(post), Content: post.Content},
	})
}

// Categories returns the distinct post categories
func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.source.Categories()
	if categories == nil {
		categories = []string{}
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": categories})
}
