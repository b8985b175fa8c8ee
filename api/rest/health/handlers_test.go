package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", Handler)
	router.GET("/ping", PingHandler)
	router.GET("/api/test", TestHandler(true))

	w := get(t, router, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var health Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "whb-prompts", health.Service)

	w = get(t, router, "/ping")
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = get(t, router, "/api/test")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"WHB Prompts API ready","app":"WHB Prompts App","keyExists":true}`, w.Body.String())
}
