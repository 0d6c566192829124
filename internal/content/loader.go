package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/posts.yaml
var embeddedPosts []byte

var (
	ErrInvalidID    = errors.New("post id must be positive")
	ErrDuplicateID  = errors.New("duplicate post id")
	ErrMissingTitle = errors.New("post title is required")
)

type postsFile struct {
	Posts []Post `yaml:"posts"`
}

// Load reads a YAML posts document and validates it. Dates are checked
// later, per entry, by the consumers that need them.
func Load(r io.Reader) (*StaticSource, error) {
	var file postsFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	seen := make(map[int]bool, len(file.Posts))
	for i := range file.Posts {
		p := &file.Posts[i]
		if p.ID <= 0 {
			return nil, fmt.Errorf("post #%d: %w (got %d)", i+1, ErrInvalidID, p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("post #%d: %w %d", i+1, ErrDuplicateID, p.ID)
		}
		seen[p.ID] = true

		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("post %d: %w", p.ID, ErrMissingTitle)
		}

		fillDerived(p)
	}

	return NewStaticSource(file.Posts), nil
}

// LoadFile loads posts from path, or the embedded data when path is empty
func LoadFile(path string) (*StaticSource, error) {
	if path == "" {
		return LoadEmbedded()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open posts file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// LoadEmbedded loads the posts compiled into the binary
func LoadEmbedded() (*StaticSource, error) {
	return Load(bytes.NewReader(embeddedPosts))
}

// fillDerived computes the excerpt and read time when the data file omits them
func fillDerived(p *Post) {
	if p.Excerpt == "" && p.Content != "" {
		p.Excerpt = Excerpt(p.Content, ExcerptLength)
	}
	if p.ReadTime == "" && p.Content != "" {
		p.ReadTime = EstimateReadTime(p.Content)
	}
}
