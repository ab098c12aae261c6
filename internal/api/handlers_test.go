package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradelens/marksheet_ocr_gemini/configs"
)

func newTestRouter() (*gin.Engine, *Handler) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(nil)
	return router, handler
}

func TestHealthHandler(t *testing.T) {
	setTestLimits(t)
	configs.LLM_PROVIDER = "gemini"

	router, handler := newTestRouter()
	router.GET("/health", handler.HealthHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "config")
}

func TestInfoHandler(t *testing.T) {
	setTestLimits(t)
	configs.LLM_PROVIDER = "gemini"

	router, handler := newTestRouter()
	router.GET("/info", handler.InfoHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1.0.0", body["api_version"])
	assert.Equal(t, float64(configs.MAX_BATCH_FILES), body["max_batch_files"])
}

func TestAuthMiddlewareDisabled(t *testing.T) {
	configs.ENABLE_AUTH = false

	router, _ := newTestRouter()
	router.GET("/ping", AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRequiresBearer(t *testing.T) {
	configs.ENABLE_AUTH = true
	configs.API_KEY = "secret-key"
	defer func() { configs.ENABLE_AUTH = false }()

	router, _ := newTestRouter()
	router.GET("/ping", AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Missing header
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong key
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct key
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractHandlerNoFile(t *testing.T) {
	setTestLimits(t)
	configs.ENABLE_AUTH = false

	router, handler := newTestRouter()
	router.POST("/extract", handler.ExtractHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "VALIDATION_ERROR", body["error_code"])
}
