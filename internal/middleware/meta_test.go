package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestResponseMetaCollectsCacheAndTiming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}

	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/faq", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/faq", nil))

	assert.Equal(t, true, meta[cacheHitKey])
	assert.Contains(t, meta, "processing_time_ms")
}

func TestExtractMetaWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	SetCacheHit(c, false)
	meta := ExtractMeta(c)

	assert.Equal(t, false, meta[cacheHitKey])
	assert.NotContains(t, meta, "processing_time_ms")
}
