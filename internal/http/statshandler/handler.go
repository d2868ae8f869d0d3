package statshandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/chat"
)

type Handler struct {
	svc chat.IChatService
}

func New(svc chat.IChatService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/healthz", h.health)
	r.GET("/stats", h.stats)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// stats exposes the observability counters: live rooms and live connections.
func (h *Handler) stats(c *gin.Context) {
	rooms, connections := h.svc.Stats()
	c.JSON(http.StatusOK, StatsResponse{
		Rooms:       rooms,
		Connections: connections,
	})
}
