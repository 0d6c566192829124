package content

import (
	"fmt"
	"strings"
	"time"

	"contabil-site/internal/slug"
)

// Post is a blog post from the static content source
type Post struct {
	ID       int    `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Excerpt  string `yaml:"excerpt" json:"excerpt"`
	Content  string `yaml:"content" json:"content"`
	Category string `yaml:"category" json:"category"`
	Date     string `yaml:"date" json:"date"`
	ReadTime string `yaml:"readTime" json:"readTime"`
}

// dateLayouts are tried in order by PublishedAt
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// PublishedAt parses the post date. Dates without a zone are read as UTC.
func (p Post) PublishedAt() (time.Time, error) {
	value := strings.TrimSpace(p.Date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q for post %d", p.Date, p.ID)
}

// Slug returns the canonical URL slug of the post
func (p Post) Slug() string {
	return slug.GeneratePostSlug(p.Title, p.ID)
}

// Source is an ordered, read-only collection of posts
type Source interface {
	Posts() []Post
}

// StaticSource serves posts loaded once from a data file
type StaticSource struct {
	posts []Post
	byID  map[int]int
}

// NewStaticSource builds a source from posts already validated by the caller
func NewStaticSource(posts []Post) *StaticSource {
	s := &StaticSource{
		posts: append([]Post(nil), posts...),
		byID:  make(map[int]int, len(posts)),
	}
	for i, p := range s.posts {
		s.byID[p.ID] = i
	}
	return s
}

// Posts returns a copy of the posts in file order
func (s *StaticSource) Posts() []Post {
	return append([]Post(nil), s.posts...)
}

// Get returns the post with the given id
func (s *StaticSource) Get(id int) (Post, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Post{}, false
	}
	return s.posts[i], true
}

// ByCategory returns the posts of a category, matched case-insensitively
func (s *StaticSource) ByCategory(category string) []Post {
	var posts []Post
	for _, p := range s.posts {
		if strings.EqualFold(p.Category, category) {
			posts = append(posts, p)
		}
	}
	return posts
}

// Categories returns the distinct categories in first-seen order
func (s *StaticSource) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range s.posts {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}
