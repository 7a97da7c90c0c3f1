package content

import (
	"log"
	"os"
	"path/filepath"

	"meridian/models"
)

// BodyHTML resolves the display body for a post. A markdown file named
// <slug>.md always wins over the stored content column; without a file
// the stored content is served verbatim; with neither the body is
// empty. The file is read fresh on every call, never cached.
func (s *Syncer) BodyHTML(post *models.Post) string {
	path := filepath.Join(s.dir, post.Slug+".md")
	if _, err := os.Stat(path); err == nil {
		src, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Error reading %s: %v", path, err)
			return ""
		}

		_, body, err := ParsePost(src)
		if err != nil {
			log.Printf("Error parsing %s: %v", path, err)
			return ""
		}
		return Render(body)
	}

	if post.Content != nil {
		return *post.Content
	}
	return ""
}

// FileBacked reports whether a markdown file currently shadows the
// stored content column for this slug. The admin UI uses this to warn
// that content-field edits will be ignored while the file exists.
func (s *Syncer) FileBacked(slug string) bool {
	_, err := os.Stat(filepath.Join(s.dir, slug+".md"))
	return err == nil
}
