package handlers

import (
	"net/http"
	"time"

	"contabil-site/internal/content"
	"contabil-site/internal/core"
	"contabil-site/internal/sitemap"
	"contabil-site/views/site"
)

// Handlers serves the crawl documents of the site
type Handlers struct {
	logger      *core.Logger
	source      content.Source
	synthesizer *sitemap.Synthesizer
	now         func() time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(logger *core.Logger, source content.Source) *Handlers {
	return &Handlers{
		logger:      logger,
		source:      source,
		synthesizer: sitemap.NewSynthesizer(source, logger),
		now:         time.Now,
	}
}

// SitemapResponse is the JSON view of the sitemap
type SitemapResponse struct {
	URLs    []sitemap.URL  `json:"urls"`
	Skipped []SkippedEntry `json:"skipped"`
}

// SkippedEntry is a post left out of the sitemap
type SkippedEntry struct {
	PostID int    `json:"post_id"`
	Reason string `json:"reason"`
}

// SitemapXML serves /sitemap.xml
func (h *Handlers) SitemapXML(w http.ResponseWriter, r *http.Request) {
	body, err := h.synthesizer.SitemapXML(h.now())
	if err != nil {
		h.logger.Error("Failed to render sitemap", "error", err)
		core.HandleError(w, core.NewInternalError("Failed to render sitemap", err))
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(body)
}

// FeedXML serves /feed.xml
func (h *Handlers) FeedXML(w http.ResponseWriter, r *http.Request) {
	body, err := h.synthesizer.FeedXML(h.now())
	if err != nil {
		h.logger.Error("Failed to render feed", "error", err)
		core.HandleError(w, core.NewInternalError("Failed to render feed", err))
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write(body)
}

// RobotsTxt serves /robots.txt
func (h *Handlers) RobotsTxt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(h.synthesizer.RobotsTxt()))
}

// SitemapJSON serves the sitemap entries and the skipped posts as JSON
func (h *Handlers) SitemapJSON(w http.ResponseWriter, r *http.Request) {
	urls, skipped := h.synthesizer.URLs(h.now())

	resp := SitemapResponse{
		URLs:    urls,
		Skipped: make([]SkippedEntry, 0, len(skipped)),
	}
	for _, entry := range skipped {
		resp.Skipped = append(resp.Skipped, SkippedEntry{PostID: entry.PostID, Reason: entry.Err.Error()})
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": resp})
}

// SitemapPage serves the human-readable site map
func (h *Handlers) SitemapPage(w http.ResponseWriter, r *http.Request) {
	pages := site.LinkSection{Heading: "Páginas"}
	for _, route := range sitemap.StaticRoutes {
		pages.Links = append(pages.Links, site.Link{Title: route.Title, Href: route.Path})
	}

	posts := site.LinkSection{Heading: "Artigos do blog"}
	for _, p := range h.source.Posts() {
		meta := p.Category
		if published, err := p.PublishedAt(); err == nil {
			if meta != "" {
				meta += " · "
			}
			meta += published.Format("02/01/2006")
		}
		posts.Links = append(posts.Links, site.Link{
			Title: p.Title,
			Href:  "/posts/" + p.Slug(),
			Meta:  meta,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := site.SitemapPage([]site.LinkSection{pages, posts}).Render(r.Context(), w); err != nil {
		h.logger.Error("Failed to render sitemap page", "error", err)
	}
}
