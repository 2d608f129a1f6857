// Package handlers implements the gin handler functions behind the
// mcapi HTTP surface.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Syfaro/mcapi/internal/core"
	"github.com/Syfaro/mcapi/internal/favicon"
	"github.com/Syfaro/mcapi/internal/metrics"
)

// cacheControl matches the original service's header: the response may
// be cached for 300 seconds, and a client may keep serving a stale
// copy for 60 seconds while revalidating in the background.
const cacheControl = "public, max-age=300, stale-while-revalidate=60"

// errorCacheControl bounds how long a malformed-request error may be
// cached; the request will never become valid, but an hour is
// conservative enough to tolerate client retries without amplifying load.
const errorCacheControl = "public, max-age=3600"

// Handler holds the dependencies every route handler needs.
type Handler struct {
	svc     *core.Service
	metrics *metrics.Registry
}

// New builds a Handler around svc, reporting request timing through reg.
func New(svc *core.Service, reg *metrics.Registry) *Handler {
	return &Handler{svc: svc, metrics: reg}
}

// serverRequest is the "ip"/"port" query parameters every lookup route
// accepts, named to match the original service's lenient "ip" field.
type serverRequest struct {
	Host string  `form:"ip" binding:"required"`
	Port *uint16 `form:"port"`
}

func bindServerRequest(c *gin.Context) (serverRequest, bool) {
	var req serverRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Header("Cache-Control", errorCacheControl)
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return serverRequest{}, false
	}
	return req, true
}

// ServerStatus godoc
// @Summary Get a server's SLP status
// @Description Pings a Minecraft server and returns its status, using the coalescing cache.
// @Tags server
// @Produce json
// @Param ip query string true "Server host, optionally host:port"
// @Param port query int false "Server port"
// @Success 200 {object} envelope.PingEnvelope
// @Router /server/status [get]
func (h *Handler) ServerStatus(c *gin.Context) {
	req, ok := bindServerRequest(c)
	if !ok {
		return
	}

	start := time.Now()
	data, err := h.svc.GetPing(c.Request.Context(), req.Host, req.Port)
	h.metrics.ObserveRequest("ping", time.Since(start).Seconds())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.Header("Cache-Control", cacheControl)
	c.JSON(http.StatusOK, data)
}

// ServerQuery godoc
// @Summary Get a server's GameSpy4 query response
// @Description Queries a Minecraft server (enable-query) and returns its response, using the coalescing cache.
// @Tags server
// @Produce json
// @Param ip query string true "Server host, optionally host:port"
// @Param port query int false "Server port"
// @Success 200 {object} envelope.QueryEnvelope
// @Router /server/query [get]
func (h *Handler) ServerQuery(c *gin.Context) {
	req, ok := bindServerRequest(c)
	if !ok {
		return
	}

	start := time.Now()
	data, err := h.svc.GetQuery(c.Request.Context(), req.Host, req.Port)
	h.metrics.ObserveRequest("query", time.Since(start).Seconds())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.Header("Cache-Control", cacheControl)
	c.JSON(http.StatusOK, data)
}

// ServerIcon godoc
// @Summary Get a server's favicon
// @Description Returns the raw PNG bytes of a server's reported favicon.
// @Tags server
// @Produce png
// @Param ip query string true "Server host, optionally host:port"
// @Param port query int false "Server port"
// @Success 200 {file} byte
// @Router /server/icon [get]
func (h *Handler) ServerIcon(c *gin.Context) {
	req, ok := bindServerRequest(c)
	if !ok {
		return
	}

	data, err := h.svc.GetPing(c.Request.Context(), req.Host, req.Port)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	icon, err := favicon.Decode(data.Favicon)
	if err != nil {
		c.Header("Cache-Control", cacheControl)
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Cache-Control", cacheControl)
	c.Data(http.StatusOK, "image/png", icon)
}

// ServerImage godoc
// @Summary Get a rendered server info card
// @Description Renders a PNG card summarizing a server's status. Outside the core lookup surface, this reuses the favicon bytes rather than a full rendered card.
// @Tags server
// @Produce png
// @Param ip query string true "Server host, optionally host:port"
// @Param port query int false "Server port"
// @Success 200 {file} byte
// @Router /server/image [get]
func (h *Handler) ServerImage(c *gin.Context) {
	h.ServerIcon(c)
}

// Health godoc
// @Summary Liveness check
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
