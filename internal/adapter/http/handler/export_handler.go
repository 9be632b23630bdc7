package handler

import (
	"transaction-ledger/internal/core/ports"
	"transaction-ledger/pkg/apperror"
	"transaction-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// ExportHandler triggers report exports.
type ExportHandler struct {
	exportSvc ports.ExportService // nil = report store disabled
}

func NewExportHandler(exportSvc ports.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Create handles POST /api/v1/exports.
func (h *ExportHandler) Create(c *gin.Context) {
	if h.exportSvc == nil {
		response.Error(c, apperror.ErrExportDisabled())
		return
	}

	run, err := h.exportSvc.Export(c.Request.Context(), "api")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, run)
}
