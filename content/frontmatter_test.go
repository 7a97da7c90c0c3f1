package content

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePost_AllFields(t *testing.T) {
	src := []byte(`---
title: Launch Announcement
slug: launch-announcement
excerpt: We are live
category: News
imageUrl: /images/launch.jpg
author: Jordan Reyes
authorImage: /images/authors/jordan.jpg
publishedAt: "2024-03-15"
readTime: 8 minutes
featured: 1
tags:
  - launch
  - product
attachmentUrl: /uploads/launch.pdf
attachmentFilename: launch.pdf
attachmentSize: 1.2 MB
---
# Hello

Body text.
`)

	meta, body, err := ParsePost(src)

	assert.NoError(t, err)
	assert.True(t, meta.Valid())
	assert.Equal(t, "Launch Announcement", meta.Title)
	assert.Equal(t, "launch-announcement", meta.Slug)
	assert.Equal(t, "We are live", meta.Excerpt)
	assert.Equal(t, "News", meta.Category)
	assert.Equal(t, "/images/launch.jpg", meta.ImageURL)
	assert.Equal(t, "Jordan Reyes", meta.Author)
	assert.Equal(t, "2024-03-15", meta.PublishedAt)
	assert.Equal(t, "8 minutes", meta.ReadTime)
	assert.Equal(t, 1, meta.Featured)
	assert.Equal(t, []string{"launch", "product"}, meta.Tags)
	assert.NotNil(t, meta.AttachmentURL)
	assert.Equal(t, "/uploads/launch.pdf", *meta.AttachmentURL)
	assert.Contains(t, body, "# Hello")
	assert.NotContains(t, body, "slug:")
}

func TestParsePost_Defaults(t *testing.T) {
	src := []byte(`---
title: Minimal Post
slug: minimal-post
---
Body.
`)

	meta, _, err := ParsePost(src)

	assert.NoError(t, err)
	assert.True(t, meta.Valid())
	assert.Equal(t, "Minimal Post", meta.Excerpt)
	assert.Equal(t, defaultCategory, meta.Category)
	assert.Equal(t, defaultImageURL, meta.ImageURL)
	assert.Equal(t, defaultAuthor, meta.Author)
	assert.Equal(t, defaultAuthorImage, meta.AuthorImage)
	assert.Equal(t, time.Now().Format("2006-01-02"), meta.PublishedAt)
	assert.Equal(t, defaultReadTime, meta.ReadTime)
	assert.Equal(t, 0, meta.Featured)
	assert.Equal(t, []string{}, meta.Tags)
	assert.Nil(t, meta.AttachmentURL)
	assert.Nil(t, meta.AttachmentFilename)
	assert.Nil(t, meta.AttachmentSize)
}

func TestParsePost_MissingSlug(t *testing.T) {
	src := []byte(`---
title: No Slug Here
---
Body.
`)

	meta, _, err := ParsePost(src)

	assert.NoError(t, err)
	assert.False(t, meta.Valid())
}

func TestParsePost_MissingTitle(t *testing.T) {
	src := []byte(`---
slug: no-title
---
Body.
`)

	meta, _, err := ParsePost(src)

	assert.NoError(t, err)
	assert.False(t, meta.Valid())
}

func TestParsePost_TagsNotAList(t *testing.T) {
	src := []byte(`---
title: Bad Tags
slug: bad-tags
tags: golang
---
Body.
`)

	meta, _, err := ParsePost(src)

	assert.NoError(t, err)
	assert.Equal(t, []string{}, meta.Tags)
}

func TestParsePost_FeaturedCoercion(t *testing.T) {
	tests := []struct {
		value    string
		expected int
	}{
		{"1", 1},
		{"0", 0},
		{"true", 1},
		{"false", 0},
		{"banana", 0},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			src := []byte("---\ntitle: T\nslug: s\nfeatured: " + tt.value + "\n---\nBody.\n")
			meta, _, err := ParsePost(src)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, meta.Featured)
		})
	}
}

func TestParsePost_ExcerptTruncatedFromTitle(t *testing.T) {
	longTitle := strings.Repeat("a", 200)
	src := []byte("---\ntitle: " + longTitle + "\nslug: long\n---\nBody.\n")

	meta, _, err := ParsePost(src)

	assert.NoError(t, err)
	assert.Equal(t, 150, len(meta.Excerpt))
}

func TestParsePost_NoFrontMatter(t *testing.T) {
	src := []byte("Just a plain markdown body.\n")

	meta, body, err := ParsePost(src)

	assert.NoError(t, err)
	assert.False(t, meta.Valid())
	assert.Contains(t, body, "plain markdown body")
}
