package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	metaKey      = "response_meta"
	metaStartKey = "response_meta_start"
	cacheHitKey  = "cache_hit"
)

// WithResponseMeta stamps the request start so handlers can report timing
// and cache details in the envelope meta.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(metaStartKey, time.Now())
		c.Set(metaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	responseMeta(c)[cacheHitKey] = hit
}

// ExtractMeta returns the collected meta. processing_time_ms is filled in
// when WithResponseMeta ran for the request.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	meta := responseMeta(c)
	if v, ok := c.Get(metaStartKey); ok {
		if start, ok := v.(time.Time); ok {
			meta["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
	return meta
}

func responseMeta(c *gin.Context) map[string]interface{} {
	if v, ok := c.Get(metaKey); ok {
		if meta, ok := v.(map[string]interface{}); ok {
			return meta
		}
	}
	meta := map[string]interface{}{}
	c.Set(metaKey, meta)
	return meta
}
