package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contabil-site/internal/content"
	"contabil-site/internal/core"
	"contabil-site/internal/sitemap"
)

func TestGenerateEmbeddedPosts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	now := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	written, err := generate(dir, "", now, true, core.NewDiscardLogger())
	require.NoError(t, err)
	require.Len(t, written, 3)

	sitemapXML, err := os.ReadFile(filepath.Join(dir, "sitemap.xml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(sitemapXML), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, string(sitemapXML), "<lastmod>2025-01-02</lastmod>")

	robots, err := os.ReadFile(filepath.Join(dir, "robots.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Sitemap: https://contabiligrejinha.com.br/sitemap.xml")

	feed, err := os.ReadFile(filepath.Join(dir, "feed.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(feed), "<rss")
}

func TestGenerateFromFile(t *testing.T) {
	dir := t.TempDir()
	postsFile := filepath.Join(dir, "posts.yaml")
	require.NoError(t, os.WriteFile(postsFile, []byte(`
posts:
  - {id: 5, title: "Férias e 13 salário", date: "2024-11-20", content: "<p>Calendário.</p>"}
  - {id: 6, title: "Sem data", date: "amanhã", content: "<p>?</p>"}
`), 0o644))

	_, err := generate(filepath.Join(dir, "out"), postsFile, time.Now(), true, core.NewDiscardLogger())
	require.NoError(t, err)

	sitemapXML, err := os.ReadFile(filepath.Join(dir, "out", "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemapXML), "/posts/ferias-e-13-salario-5</loc>")
	assert.NotContains(t, string(sitemapXML), "sem-data-6")
}

func TestGenerateMissingPostsFile(t *testing.T) {
	_, err := generate(t.TempDir(), "/nonexistent/posts.yaml", time.Now(), false, core.NewDiscardLogger())
	assert.Error(t, err)
}

func TestVerifyFeed(t *testing.T) {
	assert.Error(t, verifyFeed([]byte("not xml"), 0))

	feed := `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>
<item><title>a</title><link>https://contabiligrejinha.com.br/posts/a-1</link><pubDate>Mon, 15 Jan 2024 00:00:00 +0000</pubDate></item>
</channel></rss>`
	assert.NoError(t, verifyFeed([]byte(feed), 1))
	assert.Error(t, verifyFeed([]byte(feed), 2))

	noDate := strings.Replace(feed, "<pubDate>Mon, 15 Jan 2024 00:00:00 +0000</pubDate>", "", 1)
	assert.Error(t, verifyFeed([]byte(noDate), 1))
}

func TestVerifySitemap(t *testing.T) {
	now := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	posts := []content.Post{
		{ID: 1, Title: "Abertura de empresa", Date: "2024-01-15", Content: "<p>a</p>"},
		{ID: 2, Title: "Imposto de renda", Date: "2024-03-01", Content: "<p>b</p>"},
	}
	urls, _ := sitemap.Generate(posts, now)
	body, err := sitemap.RenderXML(urls)
	require.NoError(t, err)

	assert.NoError(t, verifySitemap(body, urls))

	t.Run("missing url", func(t *testing.T) {
		err := verifySitemap(body, append(urls, sitemap.URL{Loc: "https://contabiligrejinha.com.br/extra"}))
		assert.ErrorContains(t, err, "want")
	})

	t.Run("reordered", func(t *testing.T) {
		swapped := append([]sitemap.URL(nil), urls...)
		last := len(swapped) - 1
		swapped[0], swapped[last] = swapped[last], swapped[0]
		assert.Error(t, verifySitemap(body, swapped))
	})

	t.Run("not xml", func(t *testing.T) {
		assert.Error(t, verifySitemap([]byte("<urlset"), urls))
	})
}
