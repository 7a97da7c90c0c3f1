package admin

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"meridian/analytics"
	"meridian/cache"
	"meridian/common"
	"meridian/content"
	"meridian/models"
)

type AdminModule struct {
	db        *gorm.DB
	library   *content.Syncer
	analytics *analytics.AnalyticsModule
}

func NewAdminModule(db *gorm.DB, library *content.Syncer, analyticsModule *analytics.AnalyticsModule) *AdminModule {
	return &AdminModule{
		db:        db,
		library:   library,
		analytics: analyticsModule,
	}
}

// EnsureAdminUser seeds the admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no user with that email exists yet.
func EnsureAdminUser(db *gorm.DB) error {
	email := common.Getenv("ADMIN_EMAIL", "")
	password := common.Getenv("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{Email: email, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", email)
	return nil
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/admin/login", a.login)
	router.POST("/api/admin/logout", a.logout)

	adminGroup := router.Group("/api/admin")
	adminGroup.Use(a.requireAuth)
	{
		adminGroup.GET("/me", a.me)

		adminGroup.GET("/posts", a.listPosts)
		adminGroup.GET("/posts/:id", a.getPost)
		adminGroup.POST("/posts", a.createPost)
		adminGroup.PUT("/posts/:id", a.updatePost)
		adminGroup.DELETE("/posts/:id", a.deletePost)

		adminGroup.GET("/products", a.listProducts)
		adminGroup.POST("/products", a.createProduct)
		adminGroup.PUT("/products/:id", a.updateProduct)
		adminGroup.DELETE("/products/:id", a.deleteProduct)

		adminGroup.GET("/resources", a.listResources)
		adminGroup.POST("/resources", a.createResource)
		adminGroup.PUT("/resources/:id", a.updateResource)
		adminGroup.DELETE("/resources/:id", a.deleteResource)

		adminGroup.GET("/services", a.listServices)
		adminGroup.POST("/services", a.createService)
		adminGroup.PUT("/services/:id", a.updateService)
		adminGroup.DELETE("/services/:id", a.deleteService)

		adminGroup.GET("/reviews", a.listReviews)
		adminGroup.POST("/reviews/:id/approve", a.approveReview)
		adminGroup.DELETE("/reviews/:id", a.deleteReview)

		adminGroup.GET("/messages", a.listMessages)
		adminGroup.DELETE("/messages/:id", a.deleteMessage)

		adminGroup.GET("/subscribers", a.listSubscribers)
		adminGroup.DELETE("/subscribers/:id", a.deleteSubscriber)

		adminGroup.POST("/sync", a.syncContent)
		adminGroup.POST("/upload", a.upload)
		adminGroup.GET("/stats", a.stats)
	}
}

func (a *AdminModule) requireAuth(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get("user_id")

	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
		return
	}

	c.Set("user_id", userID)
	c.Next()
}

func (a *AdminModule) login(c *gin.Context) {
	var request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login data"})
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", request.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !checkPasswordHash(request.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"success": true, "email": user.Email})
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) me(c *gin.Context) {
	userID := c.GetInt("user_id")

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ---- posts ----

type postRequest struct {
	Slug               string   `json:"slug"`
	Title              string   `json:"title" binding:"required"`
	Excerpt            string   `json:"excerpt"`
	Category           string   `json:"category"`
	ImageURL           string   `json:"imageUrl"`
	Author             string   `json:"author"`
	AuthorImage        string   `json:"authorImage"`
	PublishedAt        string   `json:"publishedAt"`
	ReadTime           string   `json:"readTime"`
	Featured           int      `json:"featured"`
	Tags               []string `json:"tags"`
	AttachmentURL      *string  `json:"attachmentUrl"`
	AttachmentFilename *string  `json:"attachmentFilename"`
	AttachmentSize     *string  `json:"attachmentSize"`
	Content            *string  `json:"content"`
}

func (a *AdminModule) listPosts(c *gin.Context) {
	var posts []models.Post
	if err := a.db.Order("published_at DESC").Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}

	type adminPost struct {
		models.Post
		FileBacked bool `json:"fileBacked"`
	}

	out := make([]adminPost, len(posts))
	for i, post := range posts {
		out[i] = adminPost{Post: post, FileBacked: a.library.FileBacked(post.Slug)}
	}

	c.JSON(http.StatusOK, out)
}

func (a *AdminModule) getPost(c *gin.Context) {
	var post models.Post
	if err := a.db.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// fileBacked warns the UI that a markdown file shadows the content
	// field: edits to it will not be served while the file exists.
	c.JSON(http.StatusOK, gin.H{
		"post":       post,
		"fileBacked": a.library.FileBacked(post.Slug),
		"visits":     a.analytics.GetPostVisitCount(int(post.ID)),
	})
}

func (a *AdminModule) createPost(c *gin.Context) {
	var request postRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post data"})
		return
	}

	slug := request.Slug
	if slug == "" {
		slug = generateSlug(request.Title)
	}

	var existing models.Post
	if err := a.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A post with this slug already exists"})
		return
	}

	post := models.Post{
		Slug:               slug,
		Title:              request.Title,
		Excerpt:            request.Excerpt,
		Category:           request.Category,
		ImageURL:           request.ImageURL,
		Author:             request.Author,
		AuthorImage:        request.AuthorImage,
		PublishedAt:        request.PublishedAt,
		ReadTime:           request.ReadTime,
		Featured:           request.Featured,
		Tags:               models.StringList(request.Tags),
		AttachmentURL:      request.AttachmentURL,
		AttachmentFilename: request.AttachmentFilename,
		AttachmentSize:     request.AttachmentSize,
		Content:            request.Content,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if post.PublishedAt == "" {
		post.PublishedAt = time.Now().Format("2006-01-02")
	}

	if err := a.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (a *AdminModule) updatePost(c *gin.Context) {
	var post models.Post
	if err := a.db.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var request postRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post data"})
		return
	}

	if request.Slug != "" && request.Slug != post.Slug {
		var existing models.Post
		if err := a.db.Where("slug = ?", request.Slug).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A post with this slug already exists"})
			return
		}
		post.Slug = request.Slug
	}

	post.Title = request.Title
	post.Excerpt = request.Excerpt
	post.Category = request.Category
	post.ImageURL = request.ImageURL
	post.Author = request.Author
	post.AuthorImage = request.AuthorImage
	post.PublishedAt = request.PublishedAt
	post.ReadTime = request.ReadTime
	post.Featured = request.Featured
	post.Tags = models.StringList(request.Tags)
	post.AttachmentURL = request.AttachmentURL
	post.AttachmentFilename = request.AttachmentFilename
	post.AttachmentSize = request.AttachmentSize
	post.Content = request.Content
	post.UpdatedAt = time.Now()

	if err := a.db.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (a *AdminModule) deletePost(c *gin.Context) {
	result := a.db.Delete(&models.Post{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- products ----

func (a *AdminModule) listProducts(c *gin.Context) {
	var products []models.Product
	if err := a.db.Order("created_at DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (a *AdminModule) createProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data"})
		return
	}
	product.ID = 0
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if err := a.db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	cache.ClearAll()
	c.JSON(http.StatusOK, product)
}

func (a *AdminModule) updateProduct(c *gin.Context) {
	var product models.Product
	if err := a.db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var request models.Product
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data"})
		return
	}

	product.Name = request.Name
	product.Description = request.Description
	product.Category = request.Category
	product.ImageURL = request.ImageURL
	product.DatasheetURL = request.DatasheetURL
	product.Featured = request.Featured
	product.UpdatedAt = time.Now()

	if err := a.db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	cache.ClearAll()
	c.JSON(http.StatusOK, product)
}

func (a *AdminModule) deleteProduct(c *gin.Context) {
	result := a.db.Delete(&models.Product{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	cache.ClearAll()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- resources ----

func (a *AdminModule) listResources(c *gin.Context) {
	var resources []models.Resource
	if err := a.db.Order("created_at DESC").Find(&resources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load resources"})
		return
	}
	c.JSON(http.StatusOK, resources)
}

func (a *AdminModule) createResource(c *gin.Context) {
	var resource models.Resource
	if err := c.ShouldBindJSON(&resource); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource data"})
		return
	}
	resource.ID = 0
	resource.CreatedAt = time.Now()
	resource.UpdatedAt = time.Now()

	if err := a.db.Create(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
		return
	}

	cache.ClearAll()
	c.JSON(http.StatusOK, resource)
}

func (a *AdminModule) updateResource(c *gin.Context) {
	var resource models.Resource
	if err := a.db.First(&resource, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	var request models.Resource
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource data"})
		return
	}

	resource.Title = request.Title
	resource.Description = request.Description
	resource.Category = request.Category
	resource.FileURL = request.FileURL
	resource.FileName = request.FileName
	resource.FileSize = request.FileSize
	resource.UpdatedAt = time.Now()

	if err := a.db.Save(&resource).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update resource"})
		return
	}

	cache.ClearAll()
	c.JSON(http.StatusOK, resource)
}

func (a *AdminModule) deleteResource(c *gin.Context) {
	result := a.db.Delete(&models.Resource{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete resource"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	cache.ClearAll()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- services ----

func (a *AdminModule) listServices(c *gin.Context) {
	var services []models.Service
	if err := a.db.Order("sort_order ASC").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load services"})
		return
	}
	c.JSON(http.StatusOK, services)
}

func (a *AdminModule) createService(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service data"})
		return
	}
	service.ID = 0
	service.CreatedAt = time.Now()
	service.UpdatedAt = time.Now()

	if err := a.db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	cache.ClearAll()
	c.JSON(http.StatusOK, service)
}

func (a *AdminModule) updateService(c *gin.Context) {
	var service models.Service
	if err := a.db.First(&service, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	var request models.Service
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service data"})
		return
	}

	service.Title = request.Title
	service.Description = request.Description
	service.Icon = request.Icon
	service.SortOrder = request.SortOrder
	service.UpdatedAt = time.Now()

	if err := a.db.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}

	cache.ClearAll()
	c.JSON(http.StatusOK, service)
}

func (a *AdminModule) deleteService(c *gin.Context) {
	result := a.db.Delete(&models.Service{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	cache.ClearAll()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- reviews / messages / subscribers ----

func (a *AdminModule) listReviews(c *gin.Context) {
	var reviews []models.Review
	if err := a.db.Order("created_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (a *AdminModule) approveReview(c *gin.Context) {
	var review models.Review
	if err := a.db.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	review.Approved = true
	if err := a.db.Save(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

func (a *AdminModule) deleteReview(c *gin.Context) {
	result := a.db.Delete(&models.Review{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) listMessages(c *gin.Context) {
	var messages []models.ContactMessage
	if err := a.db.Order("created_at DESC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (a *AdminModule) deleteMessage(c *gin.Context) {
	result := a.db.Delete(&models.ContactMessage{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) listSubscribers(c *gin.Context) {
	var subscribers []models.Subscriber
	if err := a.db.Order("created_at DESC").Find(&subscribers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscribers"})
		return
	}
	c.JSON(http.StatusOK, subscribers)
}

func (a *AdminModule) deleteSubscriber(c *gin.Context) {
	result := a.db.Delete(&models.Subscriber{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subscriber"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscriber not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- sync / upload / stats ----

// syncContent runs one directory sync pass on demand.
func (a *AdminModule) syncContent(c *gin.Context) {
	result := a.library.Sync()
	c.JSON(http.StatusOK, result)
}

func (a *AdminModule) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), sanitizeFilename(file.Filename))
	dst := filepath.Join("uploads", filename)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      "/uploads/" + filename,
		"filename": file.Filename,
		"size":     file.Size,
	})
}

func (a *AdminModule) stats(c *gin.Context) {
	if a.analytics == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled":     true,
		"visitsByDay": a.analytics.GetVisitsByDay(30),
		"topPosts":    a.analytics.GetTopPosts(30, 10),
	})
}

// ---- helpers ----

var (
	slugInvalid   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces    = regexp.MustCompile(`[\s]+`)
	slugDashes    = regexp.MustCompile(`-+`)
	unsafeInFname = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

func generateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func sanitizeFilename(name string) string {
	return unsafeInFname.ReplaceAllString(filepath.Base(name), "_")
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
