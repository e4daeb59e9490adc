package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JDY-exe/PurePEG-price-fetch/aggregator"
	"github.com/JDY-exe/PurePEG-price-fetch/api/handler"
	"github.com/JDY-exe/PurePEG-price-fetch/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain: Recovery → Logger. The health endpoint sits beside the
// prices endpoint so monitoring probes share the same surface.
func NewRouter(agg *aggregator.Aggregator, vendorCount int, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	// Match on the raw (still-encoded) path so identifiers containing an
	// escaped slash, e.g. stereochemical SMILES like F%2FC=C%2FF, stay one
	// path segment instead of falling through to a plain-text 404.
	r.UseRawPath = true
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(vendorCount, startTime))
	v1.GET("/prices/:identifier", handler.Prices(agg))

	return r
}
