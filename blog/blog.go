package blog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"meridian/analytics"
	"meridian/content"
	"meridian/models"
)

type BlogModule struct {
	db        *gorm.DB
	library   *content.Syncer
	analytics *analytics.AnalyticsModule
}

func NewBlogModule(db *gorm.DB, library *content.Syncer, analyticsModule *analytics.AnalyticsModule) *BlogModule {
	return &BlogModule{
		db:        db,
		library:   library,
		analytics: analyticsModule,
	}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/blog", b.list)
		api.GET("/blog/:slug", b.bySlug)
	}
}

// list returns post metadata ordered by publication date, newest first.
// Bodies are not included in listings; they are resolved per post.
func (b *BlogModule) list(c *gin.Context) {
	query := b.db.Model(&models.Post{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("featured") == "1" {
		query = query.Where("featured = ?", 1)
	}

	var posts []models.Post
	if err := query.Order("published_at DESC").Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}

	for i := range posts {
		posts[i].Content = nil
	}

	c.JSON(http.StatusOK, posts)
}

// bySlug returns one post with its body resolved through the content
// read path: the markdown file wins when present, the stored content
// column is the fallback, and a post with neither serves an empty body.
func (b *BlogModule) bySlug(c *gin.Context) {
	slug := c.Param("slug")

	var post models.Post
	if err := b.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	body := b.library.BodyHTML(&post)
	post.Content = &body

	postID := int(post.ID)
	b.analytics.TrackVisit(c, &postID)

	c.JSON(http.StatusOK, post)
}
