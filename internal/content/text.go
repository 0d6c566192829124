package content

import (
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// WordsPerMinute is the reading speed used by EstimateReadTime
	WordsPerMinute = 200
	// ExcerptLength is the rune length of generated excerpts
	ExcerptLength = 160
)

// PlainText returns the visible text of an HTML fragment with whitespace
// collapsed. Input that is not HTML passes through as text.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}

	doc.Find("script, style").Remove()

	var parts []string
	collectText(doc.Find("body"), &parts)

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// collectText appends every text node under sel so adjacent block
// elements stay separated by a space.
func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			*parts = append(*parts, s.Text())
			return
		}
		collectText(s, parts)
	})
}

// EstimateReadTime returns "N min" for the given HTML content, at least 1
func EstimateReadTime(html string) string {
	words := len(strings.Fields(PlainText(html)))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min", minutes)
}

// Excerpt returns the first max runes of the plain text, cut at a word
// boundary and suffixed with "..." when truncated.
func Excerpt(html string, max int) string {
	text := PlainText(html)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}
