package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db      *sqlx.DB
	backend string
}

// NewHealthHandler creates a HealthHandler reporting on the given database.
func NewHealthHandler(db *sqlx.DB, backend string) *HealthHandler {
	return &HealthHandler{db: db, backend: backend}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "invparser"})
}

// Readiness handles GET /readyz. Not ready until the invoice store answers
// a ping.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		log.Printf("readiness: %s backend not reachable: %v", h.backend, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"backend": h.backend,
			"error":   "invoice store not reachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": h.backend})
}
