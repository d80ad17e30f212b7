package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nutriscan-backend/internal/shared/server/respond"
)

// Handler serves the health endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// Register attaches the health route at the router root. Probes hit it
// outside the versioned API group.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.get)
}

func (h *Handler) get(c *gin.Context) {
	respond.JSON(c, http.StatusOK, h.Svc.Check())
}
