// Command sitegen writes sitemap.xml, robots.txt and feed.xml for a static
// deploy of the site.
package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mmcdole/gofeed"

	"contabil-site/internal/content"
	"contabil-site/internal/core"
	"contabil-site/internal/sitemap"
)

func main() {
	godotenv.Load()

	outDir := flag.String("out", "public", "directory the documents are written to")
	postsFile := flag.String("posts", os.Getenv("SITE_POSTS_FILE"), "posts YAML file (default: embedded posts)")
	verify := flag.Bool("verify", true, "parse the generated sitemap and feed back before writing them")
	flag.Parse()

	logger := core.NewLogger()

	written, err := generate(*outDir, *postsFile, time.Now(), *verify, logger)
	if err != nil {
		logger.Error("Failed to generate site documents", "error", err)
		os.Exit(1)
	}

	for _, path := range written {
		fmt.Println(path)
	}
}

// generate writes the crawl documents into outDir and returns their paths
func generate(outDir, postsFile string, now time.Time, verify bool, logger *core.Logger) ([]string, error) {
	source, err := content.LoadFile(postsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	synthesizer := sitemap.NewSynthesizer(source, logger)

	sitemapXML, err := synthesizer.SitemapXML(now)
	if err != nil {
		return nil, err
	}

	feedXML, err := synthesizer.FeedXML(now)
	if err != nil {
		return nil, err
	}

	if verify {
		urls, _ := sitemap.Generate(source.Posts(), now)
		if err := verifySitemap(sitemapXML, urls); err != nil {
			return nil, err
		}
		logger.Debug("Verified sitemap", "urls", len(urls))

		feed, skipped := sitemap.BuildFeed(source.Posts(), now)
		if err := verifyFeed(feedXML, len(feed.Channel.Items)); err != nil {
			return nil, err
		}
		logger.Debug("Verified feed", "items", len(feed.Channel.Items), "skipped", len(skipped))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	documents := []struct {
		name string
		body []byte
	}{
		{"sitemap.xml", sitemapXML},
		{"robots.txt", []byte(synthesizer.RobotsTxt())},
		{"feed.xml", feedXML},
	}

	written := make([]string, 0, len(documents))
	for _, doc := range documents {
		path := filepath.Join(outDir, doc.name)
		if err := os.WriteFile(path, doc.body, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", doc.name, err)
		}
		logger.Info("Wrote document", "path", path, "bytes", len(doc.body))
		written = append(written, path)
	}

	return written, nil
}

// verifyFeed parses body as a feed reader would and checks the item count
func verifyFeed(body []byte, wantItems int) error {
	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return fmt.Errorf("generated feed does not parse: %w", err)
	}

	if len(feed.Items) != wantItems {
		return fmt.Errorf("generated feed has %d items, want %d", len(feed.Items), wantItems)
	}

	for _, item := range feed.Items {
		if item.Link == "" || item.PublishedParsed == nil {
			return fmt.Errorf("feed item %q is missing its link or date", item.Title)
		}
	}

	return nil
}

// verifySitemap decodes body and checks that its locations are the ones in
// want, in the same order
func verifySitemap(body []byte, want []sitemap.URL) error {
	var doc struct {
		XMLName xml.Name `xml:"urlset"`
		URLs    []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	if err := xml.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("generated sitemap does not parse: %w", err)
	}

	if len(doc.URLs) != len(want) {
		return fmt.Errorf("generated sitemap has %d urls, want %d", len(doc.URLs), len(want))
	}

	for i, url := range doc.URLs {
		if url.Loc != want[i].Loc {
			return fmt.Errorf("sitemap url %d is %q, want %q", i, url.Loc, want[i].Loc)
		}
	}

	return nil
}
