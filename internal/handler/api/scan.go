package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "payscan/internal/handler/dto/request"
	resdto "payscan/internal/handler/dto/response"
	"payscan/internal/handler/httperr"
	"payscan/internal/pkg/errs"
	"payscan/internal/usecase/commands"
	"payscan/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ScanHandler struct {
	cmds commands.ScanCommands
	q    queries.ScanQueries
}

func NewScanHandler(cmds commands.ScanCommands, q queries.ScanQueries) *ScanHandler {
	return &ScanHandler{cmds: cmds, q: q}
}

// @Summary Scan payment content
// @Description Parse and verify a scanned payment string (BIP21, BOLT11, LNURL, lightning address)
// @Tags scans
// @Accept json
// @Produce json
// @Param request body reqdto.CreateScanRequest true "Scan request"
// @Success 200 {object} resdto.ScanResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /scans [post]
func (h *ScanHandler) Create(c *gin.Context) {
	var req reqdto.CreateScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	in := commands.ScanInput{
		Content:   req.Content,
		DeviceID:  req.DeviceID,
		IPAddress: req.IPAddress,
	}
	if in.DeviceID == nil {
		if deviceID := c.GetHeader("X-Device-ID"); deviceID != "" {
			in.DeviceID = &deviceID
		}
	}
	if in.IPAddress == nil {
		if ip := c.ClientIP(); ip != "" {
			in.IPAddress = &ip
		}
	}

	result, err := h.cmds.Scan(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, errs.ErrContentRequired) || errors.Is(err, errs.ErrContentTooLong) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Scan failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromScanResult(result))
}

// @Summary Get scan
// @Description Get a logged scan by ID
// @Tags scans
// @Produce json
// @Param id path string true "Scan ID"
// @Success 200 {object} resdto.ScanDetailResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /scans/{id} [get]
func (h *ScanHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrScanNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load scan", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromScanView(view))
}

// @Summary List recent scans
// @Description List the most recent scans, newest first
// @Tags scans
// @Produce json
// @Param limit query int false "Maximum number of scans (default 50)"
// @Success 200 {object} []resdto.ScanListItemResponse
// @Failure 500 {object} map[string]string
// @Router /scans [get]
func (h *ScanHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	items, err := h.q.ListRecent(c.Request.Context(), limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list scans", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromScanList(items))
}

// @Summary Record user action
// @Description Append the user's action and outcome to an existing scan
// @Tags scans
// @Accept json
// @Produce json
// @Param id path string true "Scan ID"
// @Param request body reqdto.RecordActionRequest true "Record action request"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /scans/{id}/action [put]
func (h *ScanHandler) RecordAction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.RecordActionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}
	if err := h.cmds.RecordAction(c.Request.Context(), id, req.UserAction, req.Outcome); err != nil {
		if errors.Is(err, errs.ErrScanNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Record action failed", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
