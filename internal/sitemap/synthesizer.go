package sitemap

import (
	"time"

	"contabil-site/internal/content"
	"contabil-site/internal/core"
)

// Synthesizer produces the crawl documents from a content source and logs
// the entries it had to skip.
type Synthesizer struct {
	source content.Source
	logger *core.Logger
}

// NewSynthesizer creates a synthesizer over source
func NewSynthesizer(source content.Source, logger *core.Logger) *Synthesizer {
	return &Synthesizer{
		source: source,
		logger: logger,
	}
}

// URLs returns the sitemap entries as of now
func (s *Synthesizer) URLs(now time.Time) ([]URL, []EntryError) {
	urls, skipped := Generate(s.source.Posts(), now)
	s.logSkipped("sitemap", skipped)
	return urls, skipped
}

// SitemapXML returns the sitemap document as of now
func (s *Synthesizer) SitemapXML(now time.Time) ([]byte, error) {
	urls, _ := s.URLs(now)
	return RenderXML(urls)
}

// FeedXML returns the RSS document as of now
func (s *Synthesizer) FeedXML(now time.Time) ([]byte, error) {
	feed, skipped := BuildFeed(s.source.Posts(), now)
	s.logSkipped("feed", skipped)
	return RenderFeed(feed)
}

// RobotsTxt returns the robots.txt document
func (s *Synthesizer) RobotsTxt() string {
	return RobotsTxt()
}

func (s *Synthesizer) logSkipped(document string, skipped []EntryError) {
	for _, entry := range skipped {
		s.logger.Warn("Skipped post entry", "document", document, "post_id", entry.PostID, "error", entry.Err)
	}
}
