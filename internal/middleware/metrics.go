package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lris-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records request count and latency per route. Catalog routes are
// labelled with their segment when it is one of segments, so each catalog
// gets its own series while unknown segments stay on the route pattern.
func Metrics(metricsSvc *service.MetricsService, segments ...string) gin.HandlerFunc {
	known := make(map[string]struct{}, len(segments))
	for _, segment := range segments {
		known[segment] = struct{}{}
	}

	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		metricsSvc.ObserveHTTPRequest(c.Request.Method, routeLabel(c, known), c.Writer.Status(), time.Since(start))
	}
}

// routeLabel keeps label cardinality bounded: raw URLs are never used.
func routeLabel(c *gin.Context, known map[string]struct{}) string {
	route := c.FullPath()
	if route == "" {
		return unmatchedRoute
	}
	segment := c.Param("segment")
	if _, ok := known[segment]; ok && segment != "" {
		route = strings.Replace(route, ":segment", segment, 1)
	}
	return route
}
