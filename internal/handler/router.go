package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes. Selections is
// optional and its routes are skipped when nil.
type Handlers struct {
	Schools       *SchoolHandler
	Catalog       *CatalogHandler
	Distributions *DistributionHandler
	Selections    *SelectionHandler
	Metrics       *MetricsHandler
}

// RegisterRoutes mounts the API under prefix and the probes at the root.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(prefix)

	schools := api.Group("/schools")
	schools.GET("", h.Schools.List)
	schools.POST("", h.Schools.Create)
	schools.GET("/:id", h.Schools.Get)
	schools.PUT("/:id", h.Schools.Update)
	schools.DELETE("/:id", h.Schools.Delete)

	items := api.Group("/items/:segment")
	items.GET("", h.Catalog.List)
	items.POST("", h.Catalog.Create)
	items.GET("/:id", h.Catalog.Get)
	items.PUT("/:id", h.Catalog.Update)
	items.DELETE("/:id", h.Catalog.Retire)

	api.GET("/categories", h.Catalog.Categories)
	api.GET("/categories/describe", h.Catalog.Describe)

	ledger := api.Group("/distributed-resources")
	ledger.GET("", h.Distributions.List)
	ledger.POST("", h.Distributions.Create)
	ledger.GET("/by-school/:id", h.Distributions.ListBySchool)

	if h.Selections != nil {
		selections := api.Group("/selections")
		selections.POST("", h.Selections.Start)
		selections.GET("/:id", h.Selections.Get)
		selections.POST("/:id/category", h.Selections.ChooseCategory)
		selections.POST("/:id/submit", h.Selections.Submit)
	}
}
