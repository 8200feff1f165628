package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/service"
)

// SweepHandler triggers an on-demand sweep for the resolved tenant
type SweepHandler struct {
	factory *service.Factory
	log     zerolog.Logger
}

// NewSweepHandler creates a new SweepHandler
func NewSweepHandler(factory *service.Factory, log zerolog.Logger) *SweepHandler {
	return &SweepHandler{
		factory: factory,
		log:     log.With().Str("handler", "sweep").Logger(),
	}
}

// Trigger handles POST /v1/sweep
func (h *SweepHandler) Trigger(c *gin.Context) {
	conn, ok := ConnectionFromGin(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant connection missing"})
		return
	}

	svc, err := h.factory.For(conn)
	if err != nil {
		h.log.Error().Err(err).Str("tenant_id", conn.ID).Msg("Failed to open tenant services")
		c.JSON(http.StatusBadGateway, gin.H{"error": "tenant store unreachable"})
		return
	}

	if err := svc.Scheduler.Sweep(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Str("tenant_id", conn.ID).Msg("On-demand sweep failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "swept"})
}
