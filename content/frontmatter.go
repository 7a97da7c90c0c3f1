package content

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/adrg/frontmatter"
)

// Defaults substituted for optional front-matter keys.
const (
	defaultCategory    = "Uncategorized"
	defaultImageURL    = "/images/blog-placeholder.jpg"
	defaultAuthor      = "Meridian Team"
	defaultAuthorImage = "/images/authors/meridian.png"
	defaultReadTime    = "5 minutes"
	excerptLimit       = 150
)

// PostMeta is the validated metadata of one markdown document. All
// defaulting and coercion of author-supplied values happens in
// metaFromRaw so the rules live in one place.
type PostMeta struct {
	Title              string
	Slug               string
	Excerpt            string
	Category           string
	ImageURL           string
	Author             string
	AuthorImage        string
	PublishedAt        string
	ReadTime           string
	Featured           int
	Tags               []string
	AttachmentURL      *string
	AttachmentFilename *string
	AttachmentSize     *string
}

// Valid reports whether the document carries the keys required for
// syncing. Invalid documents are skipped by the caller, not failed.
func (m PostMeta) Valid() bool {
	return m.Title != "" && m.Slug != ""
}

// ParsePost splits raw file text into validated metadata and the
// markdown body with the front-matter block stripped.
func ParsePost(src []byte) (PostMeta, string, error) {
	raw := map[string]interface{}{}
	body, err := frontmatter.Parse(bytes.NewReader(src), &raw)
	if err != nil {
		return PostMeta{}, "", fmt.Errorf("parse front matter: %w", err)
	}
	return metaFromRaw(raw), string(body), nil
}

func metaFromRaw(raw map[string]interface{}) PostMeta {
	meta := PostMeta{
		Title:       stringVal(raw, "title"),
		Slug:        stringVal(raw, "slug"),
		Excerpt:     stringVal(raw, "excerpt"),
		Category:    stringVal(raw, "category"),
		ImageURL:    stringVal(raw, "imageUrl"),
		Author:      stringVal(raw, "author"),
		AuthorImage: stringVal(raw, "authorImage"),
		PublishedAt: stringVal(raw, "publishedAt"),
		ReadTime:    stringVal(raw, "readTime"),
		Featured:    featuredVal(raw),
		Tags:        stringSlice(raw, "tags"),
	}

	if meta.Excerpt == "" {
		meta.Excerpt = truncate(meta.Title, excerptLimit)
	}
	if meta.Category == "" {
		meta.Category = defaultCategory
	}
	if meta.ImageURL == "" {
		meta.ImageURL = defaultImageURL
	}
	if meta.Author == "" {
		meta.Author = defaultAuthor
	}
	if meta.AuthorImage == "" {
		meta.AuthorImage = defaultAuthorImage
	}
	if meta.PublishedAt == "" {
		meta.PublishedAt = time.Now().Format("2006-01-02")
	}
	if meta.ReadTime == "" {
		meta.ReadTime = defaultReadTime
	}

	// Attachment fields stay nil unless present, so they serialize as
	// absent rather than empty strings.
	if v := stringVal(raw, "attachmentUrl"); v != "" {
		meta.AttachmentURL = &v
	}
	if v := stringVal(raw, "attachmentFilename"); v != "" {
		meta.AttachmentFilename = &v
	}
	if v := stringVal(raw, "attachmentSize"); v != "" {
		meta.AttachmentSize = &v
	}

	return meta
}

// stringVal coerces a front-matter value to a string, tolerating
// numbers and booleans typed by hand.
func stringVal(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

// featuredVal coerces the featured flag to 0 or 1.
func featuredVal(raw map[string]interface{}) int {
	switch t := raw["featured"].(type) {
	case int:
		if t == 1 {
			return 1
		}
	case float64:
		if t == 1 {
			return 1
		}
	case bool:
		if t {
			return 1
		}
	case string:
		if t == "1" || t == "true" {
			return 1
		}
	}
	return 0
}

// stringSlice coerces a front-matter value to a string list. Anything
// that is not a list becomes the empty list rather than an error.
func stringSlice(raw map[string]interface{}, key string) []string {
	out := []string{}

	items, ok := raw[key].([]interface{})
	if !ok {
		return out
	}

	for _, item := range items {
		if s, isStr := item.(string); isStr {
			out = append(out, s)
		} else if item != nil {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
