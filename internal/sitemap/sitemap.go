// Package sitemap builds the sitemap.xml, robots.txt and RSS documents of
// contabiligrejinha.com.br from the static routes and the post collection.
//
// Generation is pure: the post collection and the current time are passed
// in, so the same inputs always produce the same document.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"time"

	"contabil-site/internal/content"
)

// BaseURL is the canonical origin of the site
const BaseURL = "https://contabiligrejinha.com.br"

// Namespace is the sitemap protocol namespace of the urlset element
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// DateLayout is the lastmod format
const DateLayout = "2006-01-02"

// ChangeFreq is a sitemap protocol change-frequency hint
type ChangeFreq string

const (
	Always  ChangeFreq = "always"
	Hourly  ChangeFreq = "hourly"
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
	Never   ChangeFreq = "never"
)

// URL is a single sitemap entry
type URL struct {
	Loc        string     `xml:"loc" json:"loc"`
	LastMod    string     `xml:"lastmod" json:"lastmod"`
	ChangeFreq ChangeFreq `xml:"changefreq" json:"changefreq"`
	Priority   string     `xml:"priority" json:"priority"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Route is a fixed page of the site with its crawl hints
type Route struct {
	Path       string
	Title      string
	ChangeFreq ChangeFreq
	Priority   string
}

// StaticRoutes are emitted before any post, in this order
var StaticRoutes = []Route{
	{Path: "/", Title: "Início", ChangeFreq: Weekly, Priority: "1.0"},
	{Path: "/posts", Title: "Blog", ChangeFreq: Daily, Priority: "0.9"},
	{Path: "/equipe", Title: "Equipe", ChangeFreq: Monthly, Priority: "0.7"},
	{Path: "/faq", Title: "Perguntas frequentes", ChangeFreq: Monthly, Priority: "0.6"},
	{Path: "/contato", Title: "Contato", ChangeFreq: Monthly, Priority: "0.8"},
}

const (
	postChangeFreq = Monthly
	postPriority   = "0.8"
)

// EntryError reports a post left out of a generated document
type EntryError struct {
	PostID int
	Err    error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("post %d: %v", e.PostID, e.Err)
}

func (e EntryError) Unwrap() error {
	return e.Err
}

// PostURL returns the absolute URL of a post
func PostURL(p content.Post) string {
	return BaseURL + "/posts/" + p.Slug()
}

// Generate returns the static routes followed by one entry per post, in
// source order. Posts whose date cannot be parsed are skipped and reported.
func Generate(posts []content.Post, now time.Time) ([]URL, []EntryError) {
	today := now.UTC().Format(DateLayout)

	urls := make([]URL, 0, len(StaticRoutes)+len(posts))
	for _, route := range StaticRoutes {
		urls = append(urls, URL{
			Loc:        BaseURL + route.Path,
			LastMod:    today,
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}

	var skipped []EntryError
	for _, post := range posts {
		published, err := post.PublishedAt()
		if err != nil {
			skipped = append(skipped, EntryError{PostID: post.ID, Err: err})
			continue
		}

		urls = append(urls, URL{
			Loc:        PostURL(post),
			LastMod:    published.UTC().Format(DateLayout),
			ChangeFreq: postChangeFreq,
			Priority:   postPriority,
		})
	}

	return urls, skipped
}

// RenderXML renders urls as a sitemap protocol document. Text is escaped by
// the XML encoder.
func RenderXML(urls []URL) ([]byte, error) {
	set := urlSet{Xmlns: Namespace, URLs: urls}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sitemap: %w", err)
	}

	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// GenerateXML is Generate followed by RenderXML
func GenerateXML(posts []content.Post, now time.Time) ([]byte, []EntryError, error) {
	urls, skipped := Generate(posts, now)
	doc, err := RenderXML(urls)
	return doc, skipped, err
}

// RobotsTxt returns the robots.txt document
func RobotsTxt() string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + BaseURL + "/sitemap.xml\n"
}
