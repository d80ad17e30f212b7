package products

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nutriscan-backend/internal/shared/server/respond"
	"nutriscan-backend/nutrition/healthmodel"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches product routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products/:barcode", h.lookup)
}

func (h *Handler) lookup(c *gin.Context) {
	result, err := h.Svc.Lookup(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidBarcode):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		case errors.Is(err, ErrProductNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "product not found", nil)
		case errors.Is(err, ErrUpstream):
			respond.Error(c, http.StatusBadGateway, "upstream_unavailable", "product database is unavailable", nil)
		case errors.Is(err, healthmodel.ErrModelUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "model_unavailable", "scoring model is unavailable", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to look up product", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, result)
}
