package router

import (
	"github.com/gin-gonic/gin"

	"invparser/internal/handler"
	"invparser/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(invoiceH *handler.InvoiceHandler, healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Extraction
	r.POST("/extract", invoiceH.Extract)

	// Invoice retrieval
	invoices := r.Group("/invoices")
	invoices.GET("/vendor/:vendor", invoiceH.ListByVendor)
	invoices.GET("/vendor/:vendor/export", invoiceH.ExportVendorReport)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.DELETE("/:id", invoiceH.Delete)

	return r
}
