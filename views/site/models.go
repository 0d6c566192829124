// Package site renders the public HTML pages of the site.
package site

// Link is an entry of the HTML sitemap
type Link struct {
	Title string
	Href  string
	Meta  string
}

// LinkSection groups links under a heading
type LinkSection struct {
	Heading string
	Links   []Link
}
