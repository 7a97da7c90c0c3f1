package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"meridian/admin"
	"meridian/analytics"
	"meridian/blog"
	"meridian/cache"
	"meridian/common"
	"meridian/content"
	"meridian/database"
	emailpkg "meridian/email"
	"meridian/site"
)

// setupRouter builds the HTTP surface. With a nil db only the health
// check and static routes are registered, so the server can come up
// before its database is configured.
func setupRouter(db *gorm.DB, library *content.Syncer, analyticsModule *analytics.AnalyticsModule, sessionSecret string) *gin.Engine {
	router := gin.Default()

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
	})
	router.Use(sessions.Sessions("meridian-session", store))

	router.Static("/public", "./public")
	router.Static("/uploads", "./uploads")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "database": db != nil})
	})

	if db == nil {
		log.Println("Warning: no database configured, API routes disabled")
		return router
	}

	router.Use(cache.Middleware(5*time.Minute,
		"/api/products", "/api/resources", "/api/services"))

	blog.NewBlogModule(db, library, analyticsModule).RegisterRoutes(router)
	admin.NewAdminModule(db, library, analyticsModule).RegisterRoutes(router)
	site.NewSiteModule(db, emailpkg.NewEmailService()).RegisterRoutes(router)

	return router
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	db := common.ConnectDb()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}

	library := content.NewSyncer(db, common.Getenv("CONTENT_DIR", content.DefaultDir))

	var analyticsModule *analytics.AnalyticsModule
	if db != nil {
		if err := database.RunMigrations(db); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}

		if err := admin.EnsureAdminUser(db); err != nil {
			log.Printf("Error seeding admin user: %v", err)
		}

		analyticsModule = analytics.NewAnalyticsModule(common.ConnectAnalyticsDb())

		library.Sync()

		if os.Getenv("WATCH_CONTENT") == "1" {
			watcher := content.NewWatcher(library, content.DefaultDebounce)
			if err := watcher.Start(); err == nil {
				defer watcher.Stop()
			}
		}
	}

	router := setupRouter(db, library, analyticsModule, sessionSecret)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
