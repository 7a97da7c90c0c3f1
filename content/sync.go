package content

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"meridian/models"
)

// DefaultDir is where markdown posts are read from when CONTENT_DIR is
// unset.
const DefaultDir = "blog-posts"

// Syncer reconciles markdown files in a directory with post records,
// keyed by slug. Only metadata is persisted; bodies stay on disk and
// are rendered at serve time.
type Syncer struct {
	db  *gorm.DB
	dir string
}

func NewSyncer(db *gorm.DB, dir string) *Syncer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Syncer{db: db, dir: dir}
}

// Result aggregates the outcome of one directory sync pass.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Sync enumerates every *.md file in the content directory and upserts
// its metadata. A bad file degrades to a skip; the batch always runs to
// completion.
func (s *Syncer) Sync() Result {
	var res Result

	if s.db == nil {
		log.Println("content sync skipped: no database configured")
		return res
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("content directory %s not found, nothing to sync", s.dir)
		} else {
			log.Printf("Error reading content directory %s: %v", s.dir, err)
		}
		return res
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		src, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			log.Printf("Error reading %s: %v", entry.Name(), err)
			res.Skipped++
			continue
		}

		meta, _, err := ParsePost(src)
		if err != nil {
			log.Printf("Error parsing %s: %v", entry.Name(), err)
			res.Skipped++
			continue
		}

		if !meta.Valid() {
			log.Printf("Warning: %s is missing title or slug, skipping", entry.Name())
			res.Skipped++
			continue
		}

		created, err := s.upsert(meta)
		if err != nil {
			log.Printf("Error syncing %s: %v", entry.Name(), err)
			res.Skipped++
			continue
		}

		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	log.Printf("Content sync: %d created, %d updated, %d skipped", res.Created, res.Updated, res.Skipped)
	return res
}

// upsert inserts a new post with a NULL content column, or updates the
// metadata fields of the existing record with that slug. The content
// column and the record ID are never touched on update.
func (s *Syncer) upsert(meta PostMeta) (created bool, err error) {
	var post models.Post
	err = s.db.Where("slug = ?", meta.Slug).First(&post).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		post = models.Post{
			Slug:               meta.Slug,
			Title:              meta.Title,
			Excerpt:            meta.Excerpt,
			Category:           meta.Category,
			ImageURL:           meta.ImageURL,
			Author:             meta.Author,
			AuthorImage:        meta.AuthorImage,
			PublishedAt:        meta.PublishedAt,
			ReadTime:           meta.ReadTime,
			Featured:           meta.Featured,
			Tags:               models.StringList(meta.Tags),
			AttachmentURL:      meta.AttachmentURL,
			AttachmentFilename: meta.AttachmentFilename,
			AttachmentSize:     meta.AttachmentSize,
			Content:            nil, // body is read from disk at serve time
		}
		if err := s.db.Create(&post).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	updates := map[string]interface{}{
		"title":               meta.Title,
		"excerpt":             meta.Excerpt,
		"category":            meta.Category,
		"image_url":           meta.ImageURL,
		"author":              meta.Author,
		"author_image":        meta.AuthorImage,
		"published_at":        meta.PublishedAt,
		"read_time":           meta.ReadTime,
		"featured":            meta.Featured,
		"tags":                models.StringList(meta.Tags),
		"attachment_url":      meta.AttachmentURL,
		"attachment_filename": meta.AttachmentFilename,
		"attachment_size":     meta.AttachmentSize,
	}
	if err := s.db.Model(&post).Updates(updates).Error; err != nil {
		return false, err
	}
	return false, nil
}
