package site

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"meridian/common"
	"meridian/email"
	"meridian/models"
)

type SiteModule struct {
	db    *gorm.DB
	email *email.EmailService
}

func NewSiteModule(db *gorm.DB, emailService *email.EmailService) *SiteModule {
	return &SiteModule{db: db, email: emailService}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/products", s.listProducts)
		api.GET("/products/:id", s.getProduct)
		api.GET("/resources", s.listResources)
		api.GET("/services", s.listServices)
		api.GET("/reviews", s.listReviews)
		api.POST("/contact", s.submitContact)
		api.POST("/newsletter", s.subscribe)
		api.POST("/reviews", s.submitReview)
	}
	router.GET("/sitemap.xml", s.sitemap)
}

func (s *SiteModule) listProducts(c *gin.Context) {
	query := s.db.Model(&models.Product{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *SiteModule) getProduct(c *gin.Context) {
	var product models.Product
	if err := s.db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *SiteModule) listResources(c *gin.Context) {
	var resources []models.Resource
	if err := s.db.Order("created_at DESC").Find(&resources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load resources"})
		return
	}
	c.JSON(http.StatusOK, resources)
}

func (s *SiteModule) listServices(c *gin.Context) {
	var services []models.Service
	if err := s.db.Order("sort_order ASC").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load services"})
		return
	}
	c.JSON(http.StatusOK, services)
}

func (s *SiteModule) listReviews(c *gin.Context) {
	var reviews []models.Review
	if err := s.db.Where("approved = ?", true).Order("created_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (s *SiteModule) submitContact(c *gin.Context) {
	var request struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Company string `json:"company"`
		Phone   string `json:"phone"`
		Message string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact data"})
		return
	}

	msg := models.ContactMessage{
		Name:      request.Name,
		Email:     request.Email,
		Company:   request.Company,
		Phone:     request.Phone,
		Message:   request.Message,
		CreatedAt: time.Now(),
	}

	if err := s.db.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	// The submission is stored either way; a notification failure only
	// gets logged.
	if err := s.email.SendContactNotification(&msg); err != nil {
		log.Printf("Error sending contact notification: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *SiteModule) subscribe(c *gin.Context) {
	var request struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	var existing models.Subscriber
	if err := s.db.Where("email = ?", request.Email).First(&existing).Error; err == nil {
		// Already subscribed, treat as success
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	subscriber := models.Subscriber{Email: request.Email, CreatedAt: time.Now()}
	if err := s.db.Create(&subscriber).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *SiteModule) submitReview(c *gin.Context) {
	var request struct {
		Name    string `json:"name" binding:"required"`
		Company string `json:"company"`
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review data"})
		return
	}

	review := models.Review{
		Name:      request.Name,
		Company:   request.Company,
		Rating:    request.Rating,
		Comment:   request.Comment,
		Approved:  false, // reviews go live after admin approval
		CreatedAt: time.Now(),
	}

	if err := s.db.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *SiteModule) sitemap(c *gin.Context) {
	domain := common.SiteURL()

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	staticPages := []struct {
		path     string
		freq     string
		priority string
	}{
		{"/", "weekly", "1.0"},
		{"/products", "weekly", "0.8"},
		{"/services", "monthly", "0.7"},
		{"/resources", "weekly", "0.7"},
		{"/blog", "daily", "0.8"},
		{"/contact", "monthly", "0.5"},
	}

	for _, page := range staticPages {
		sitemap.WriteString("  <url>\n")
		sitemap.WriteString("    <loc>" + domain + page.path + "</loc>\n")
		sitemap.WriteString("    <changefreq>" + page.freq + "</changefreq>\n")
		sitemap.WriteString("    <priority>" + page.priority + "</priority>\n")
		sitemap.WriteString("  </url>\n")
	}

	var posts []models.Post
	s.db.Order("published_at DESC").Find(&posts)

	for _, post := range posts {
		sitemap.WriteString("  <url>\n")
		sitemap.WriteString("    <loc>" + domain + "/blog/" + post.Slug + "</loc>\n")
		sitemap.WriteString("    <lastmod>" + post.UpdatedAt.Format(time.RFC3339) + "</lastmod>\n")
		sitemap.WriteString("    <changefreq>monthly</changefreq>\n")
		sitemap.WriteString("    <priority>0.6</priority>\n")
		sitemap.WriteString("  </url>\n")
	}

	sitemap.WriteString("</urlset>\n")

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap.String())
}
