package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agentconsole/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	testCases := []struct {
		name     string
		apiKey   string
		header   string
		expected int
	}{
		{"auth disabled", "", "", http.StatusOK},
		{"valid bearer token", "secret", "Bearer secret", http.StatusOK},
		{"valid raw token", "secret", "secret", http.StatusOK},
		{"missing token", "secret", "", http.StatusUnauthorized},
		{"wrong token", "secret", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			engine := gin.New()
			engine.Use(AuthMiddleware(tc.apiKey))
			engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())

	var traceID string
	engine.GET("/x", func(c *gin.Context) {
		traceID = logger.TraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), traceID)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", traceID)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery())
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
	assert.NotContains(t, w.Body.String(), "stack")
}

func TestLogger_PreservesBody(t *testing.T) {
	engine := gin.New()
	engine.Use(Logger())

	var got string
	engine.PATCH("/x", func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		got = string(data)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPatch, "/x", strings.NewReader(`{ "name": "agent1" }`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, `{ "name": "agent1" }`, got)
}

func TestHasLoggableBody(t *testing.T) {
	jsonReq := httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader([]byte("{}")))
	jsonReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	assert.True(t, hasLoggableBody(jsonReq))

	upload := httptest.NewRequest(http.MethodPut, "/x", bytes.NewReader([]byte("--b")))
	upload.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	assert.False(t, hasLoggableBody(upload))

	assert.False(t, hasLoggableBody(httptest.NewRequest(http.MethodGet, "/x", nil)))
}

func TestCompressBody(t *testing.T) {
	assert.Equal(t, "", CompressBody(""))
	assert.Equal(t, `{"a":1,"b":[1,2]}`, CompressBody("{\n  \"a\": 1,\n  \"b\": [1, 2]\n}"))

	long := `{"k":"` + strings.Repeat("x", 2000) + `"}`
	compressed := CompressBody(long)
	assert.Len(t, compressed, maxLoggedBody+3)
	assert.True(t, strings.HasSuffix(compressed, "..."))
}
