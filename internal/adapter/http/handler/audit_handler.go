package handler

import (
	"strconv"

	"transaction-ledger/internal/adapter/http/dto"
	"transaction-ledger/internal/core/ports"
	"transaction-ledger/pkg/apperror"
	"transaction-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultAuditPage = 100
	maxAuditPage     = 1000
)

// AuditHandler exposes the audit trail for verification tooling.
type AuditHandler struct {
	ledger ports.LedgerService
}

func NewAuditHandler(ledger ports.LedgerService) *AuditHandler {
	return &AuditHandler{ledger: ledger}
}

// List handles GET /api/v1/audit?from_seq=&limit=.
func (h *AuditHandler) List(c *gin.Context) {
	fromSeq, err := strconv.ParseUint(c.DefaultQuery("from_seq", "1"), 10, 64)
	if err != nil || fromSeq < 1 {
		response.Error(c, apperror.Validation("from_seq must be a positive integer"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultAuditPage)))
	if err != nil || limit < 1 {
		response.Error(c, apperror.Validation("limit must be a positive integer"))
		return
	}
	if limit > maxAuditPage {
		limit = maxAuditPage
	}

	records, total := h.ledger.Audit(c.Request.Context(), fromSeq, limit)
	response.OK(c, dto.AuditPageResponse{
		Records: records,
		FromSeq: fromSeq,
		Limit:   limit,
		Total:   total,
	})
}

// Verify handles GET /api/v1/audit/verify.
func (h *AuditHandler) Verify(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.ledger.VerifyAudit(ctx); err != nil {
		response.Error(c, err)
		return
	}
	_, total := h.ledger.Audit(ctx, 1, 1)
	response.OK(c, dto.AuditVerifyResponse{Valid: true, Records: total})
}
