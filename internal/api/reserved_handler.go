package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/models"
	"github.com/CWALabs/SkyCMS-sub002/internal/reserved"
	"github.com/CWALabs/SkyCMS-sub002/internal/service"
)

// ReservedHandler exposes reserved path CRUD for the resolved tenant
type ReservedHandler struct {
	factory *service.Factory
	log     zerolog.Logger
}

// NewReservedHandler creates a new ReservedHandler
func NewReservedHandler(factory *service.Factory, log zerolog.Logger) *ReservedHandler {
	return &ReservedHandler{
		factory: factory,
		log:     log.With().Str("handler", "reserved").Logger(),
	}
}

// List handles GET /v1/reserved-paths
func (h *ReservedHandler) List(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}

	paths, err := svc.Reserved.Paths(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list reserved paths")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reserved paths"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"paths": paths})
}

// Upsert handles PUT /v1/reserved-paths
func (h *ReservedHandler) Upsert(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}

	var body models.ReservedPath
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := svc.Reserved.Upsert(c.Request.Context(), body); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reserved.ErrSystemPath) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": body.Path})
}

// Remove handles DELETE /v1/reserved-paths/*path
func (h *ReservedHandler) Remove(c *gin.Context) {
	svc, ok := h.services(c)
	if !ok {
		return
	}

	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	if err := svc.Reserved.Remove(c.Request.Context(), path); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reserved.ErrSystemPath) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReservedHandler) services(c *gin.Context) (*service.Services, bool) {
	conn, ok := ConnectionFromGin(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant connection missing"})
		return nil, false
	}
	svc, err := h.factory.For(conn)
	if err != nil {
		h.log.Error().Err(err).Str("tenant_id", conn.ID).Msg("Failed to open tenant services")
		c.JSON(http.StatusBadGateway, gin.H{"error": "tenant store unreachable"})
		return nil, false
	}
	return svc, true
}
