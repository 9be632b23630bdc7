package handler

import (
	"strconv"

	"transaction-ledger/internal/adapter/http/dto"
	"transaction-ledger/internal/core/domain"
	"transaction-ledger/internal/core/ports"
	"transaction-ledger/pkg/apperror"
	"transaction-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves account snapshots.
type AccountHandler struct {
	ledger ports.LedgerService
}

func NewAccountHandler(ledger ports.LedgerService) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

// List handles GET /api/v1/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	snaps := h.ledger.Snapshots(c.Request.Context())
	response.OK(c, dto.AccountsResponse{Accounts: snaps, Count: len(snaps)})
}

// Get handles GET /api/v1/accounts/:client.
func (h *AccountHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("client"), 10, 16)
	if err != nil {
		response.Error(c, apperror.Validation("client must be an integer between 0 and 65535"))
		return
	}

	snap, ok := h.ledger.Snapshot(c.Request.Context(), domain.ClientID(id))
	if !ok {
		response.Error(c, apperror.ErrNotFound("account"))
		return
	}
	response.OK(c, snap)
}
