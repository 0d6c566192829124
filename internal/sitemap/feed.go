package sitemap

import (
	"encoding/xml"
	"fmt"
	"time"

	"contabil-site/internal/content"
)

const (
	feedTitle       = "Contábil Igrejinha - Blog"
	feedDescription = "Artigos sobre contabilidade, tributos e gestão para empresas e pessoas físicas."
	feedLanguage    = "pt-br"
)

// RSSFeed is the root element of an RSS 2.0 document
type RSSFeed struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel represents the channel element in RSS
type Channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	Language      string `xml:"language"`
	LastBuildDate string `xml:"lastBuildDate"`
	Items         []Item `xml:"item"`
}

// Item represents an RSS item for one post
type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        GUID   `xml:"guid"`
}

// GUID is the permalink identifier of an item
type GUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// BuildFeed returns the RSS feed of posts in source order. Posts with an
// unparsable date are skipped and reported like in Generate.
func BuildFeed(posts []content.Post, now time.Time) (RSSFeed, []EntryError) {
	feed := RSSFeed{
		Version: "2.0",
		Channel: Channel{
			Title:         feedTitle,
			Link:          BaseURL + "/posts",
			Description:   feedDescription,
			Language:      feedLanguage,
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
		},
	}

	var skipped []EntryError
	for _, post := range posts {
		published, err := post.PublishedAt()
		if err != nil {
			skipped = append(skipped, EntryError{PostID: post.ID, Err: err})
			continue
		}

		link := PostURL(post)
		feed.Channel.Items = append(feed.Channel.Items, Item{
			Title:       post.Title,
			Link:        link,
			Description: post.Excerpt,
			Category:    post.Category,
			PubDate:     published.UTC().Format(time.RFC1123Z),
			GUID:        GUID{IsPermaLink: true, Value: link},
		})
	}

	return feed, skipped
}

// RenderFeed renders the feed with an XML declaration
func RenderFeed(feed RSSFeed) ([]byte, error) {
	body, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feed: %w", err)
	}

	return append([]byte(xml.Header), append(body, '\n')...), nil
}
