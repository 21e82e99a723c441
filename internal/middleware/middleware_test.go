package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"address-api/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		handler        gin.HandlerFunc
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name: "recorded error becomes generic 500",
			handler: func(c *gin.Context) {
				_ = c.Error(assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   map[string]interface{}{"message": "internal server error"},
		},
		{
			name: "response already written is kept",
			handler: func(c *gin.Context) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "bad"})
				_ = c.Error(assert.AnError)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"message": "bad"},
		},
		{
			name: "no error passes through",
			handler: func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "ok"})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]interface{}{"status": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			w := httptest.NewRecorder()
			_, r := gin.CreateTestContext(w)
			r.Use(ErrorHandler(zerolog.New(&logs)))
			r.GET("/boom", tt.handler)

			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)

			var actualBody interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actualBody))
			assert.Equal(t, tt.expectedBody, actualBody)
		})
	}
}

func TestErrorHandler_LogsCause(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.Use(ErrorHandler(zerolog.New(&logs)))
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(assert.AnError) })

	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Contains(t, logs.String(), assert.AnError.Error())
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.Use(RequestLogger(zerolog.New(&logs)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/missing", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := observability.NewMetricsForTesting()
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.Use(Metrics(m))
	r.GET("/api/addresses/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/addresses/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/addresses/2", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/addresses/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", unmatchedRoute, "404")))
}
