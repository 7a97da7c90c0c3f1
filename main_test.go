package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"meridian/content"
	"meridian/database"
)

func TestSetupRouter_DegradedWithoutDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter(nil, content.NewSyncer(nil, t.TempDir()), nil, "test-secret")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":false`)

	// API routes are not registered without a database
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/blog", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupRouter_FullWiring(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, database.RunMigrations(db))

	router := setupRouter(db, content.NewSyncer(db, t.TempDir()), nil, "test-secret")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":true`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/blog", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/admin/posts", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
