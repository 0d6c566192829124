// Package slug turns titles into URL-safe identifiers and recovers post ids
// from them.
//
// Slugs are lower-case ASCII words joined by single hyphens. Accented
// letters are folded to their base letter (Unicode NFD decomposition with
// combining marks removed) so Portuguese titles stay readable:
//
//	slug.Slugify("Declaração de Imposto de Renda") // "declaracao-de-imposto-de-renda"
//	slug.GeneratePostSlug("Abertura de Empresa", 42) // "abertura-de-empresa-42"
//	slug.ExtractIDFromSlug("abertura-de-empresa-42") // 42, true
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	hyphenRuns = regexp.MustCompile(`-{2,}`)
	idSuffix   = regexp.MustCompile(`-(\d+)$`)
)

// Slugify lower-cases text, strips diacritics, drops anything outside
// [a-z0-9], whitespace and '-', then joins the remaining words with single
// hyphens. Empty input yields an empty slug.
func Slugify(text string) string {
	if text == "" {
		return ""
	}

	folded := stripMarks(strings.ToLower(text))

	kept := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case unicode.IsSpace(r):
			return r
		}
		return -1
	}, folded)

	joined := strings.Join(strings.Fields(kept), "-")
	joined = hyphenRuns.ReplaceAllString(joined, "-")
	return strings.Trim(joined, "-")
}

// GeneratePostSlug returns the slugified title followed by "-<id>". A title
// that slugifies to nothing yields "-<id>".
func GeneratePostSlug(title string, id int) string {
	return Slugify(title) + "-" + strconv.Itoa(id)
}

// ExtractIDFromSlug returns the trailing numeric id of a post slug. The
// title part cannot be recovered. ok is false when the slug has no
// "-<digits>" suffix or the digits overflow an int.
func ExtractIDFromSlug(s string) (id int, ok bool) {
	m := idSuffix.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// stripMarks decomposes s and removes nonspacing marks. The transformer is
// built per call since transform.Chain is stateful.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
