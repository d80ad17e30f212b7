package scans

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"nutriscan-backend/internal/ingest"
	"nutriscan-backend/internal/shared/server/respond"
	"nutriscan-backend/nutrition/analyzer"
	"nutriscan-backend/nutrition/healthmodel"
	"nutriscan-backend/nutrition/label"
)

const maxUploadSize = 10 << 20 // matches the PDF ingest cap

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches scan routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/scans", h.create)
	rg.POST("/scans/manual", h.createManual)
	rg.POST("/scans/compare", h.compare)
	rg.GET("/scans", h.list)
	rg.GET("/scans/:id", h.get)
	rg.GET("/scans/:id/raw", h.raw)
	rg.DELETE("/scans/:id", h.remove)
}

type scanLineRequest struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type createScanRequest struct {
	ProductName string            `json:"product_name"`
	Format      string            `json:"format"`
	Text        string            `json:"text"`
	Lines       []scanLineRequest `json:"lines"`
}

func (h *Handler) create(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		h.createFromUpload(c)
		return
	}

	var req createScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return
	}

	if len(req.Lines) > 0 {
		lines := make([]label.Line, 0, len(req.Lines))
		for _, l := range req.Lines {
			lines = append(lines, label.Line{Text: l.Text, Confidence: l.Confidence})
		}
		scan, err := h.Svc.ScanLines(c.Request.Context(), req.ProductName, lines)
		if err != nil {
			respondScanError(c, err)
			return
		}
		respond.JSON(c, http.StatusCreated, ToResponse(scan))
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "text or lines is required", nil)
		return
	}

	scan, err := h.Svc.Scan(c.Request.Context(), req.ProductName, req.Format, []byte(req.Text))
	if err != nil {
		respondScanError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, ToResponse(scan))
}

func (h *Handler) createFromUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "unable to read file", nil)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "unable to read file", nil)
		return
	}

	scan, err := h.Svc.Scan(c.Request.Context(), c.PostForm("product_name"), c.PostForm("format"), payload)
	if err != nil {
		respondScanError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, ToResponse(scan))
}

func (h *Handler) createManual(c *gin.Context) {
	var entry analyzer.ManualEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return
	}
	scan, err := h.Svc.ScanManual(c.Request.Context(), entry)
	if err != nil {
		respondScanError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, ToResponse(scan))
}

type compareRequest struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
}

func (h *Handler) compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.FirstID) == "" || strings.TrimSpace(req.SecondID) == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "first_id and second_id are required", nil)
		return
	}

	comparison, err := h.Svc.Compare(c.Request.Context(), req.FirstID, req.SecondID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "scan not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compare scans", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, comparison)
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	scansList, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list scans", nil)
		return
	}

	resp := make([]ScanSummary, 0, len(scansList))
	for _, scan := range scansList {
		resp = append(resp, toSummary(scan))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	scan, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "scan not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch scan", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, ToResponse(scan))
}

func (h *Handler) raw(c *gin.Context) {
	rc, _, err := h.Svc.OpenRaw(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoRawPayload):
			respond.Error(c, http.StatusNotFound, "not_found", "raw payload not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open raw payload", nil)
		}
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", rc, nil)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "scan not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete scan", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func respondScanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analyzer.ErrInvalidManualInput):
		respond.Error(c, http.StatusBadRequest, "invalid_manual_input", err.Error(), nil)
	case errors.Is(err, ingest.ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "invalid_request", err.Error(), nil)
	case errors.Is(err, ingest.ErrUnsupportedFormat), errors.Is(err, ingest.ErrMalformedPayload):
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	case errors.Is(err, healthmodel.ErrModelUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "model_unavailable", "scoring model is unavailable", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze scan", nil)
	}
}
