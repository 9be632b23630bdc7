package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"transaction-ledger/internal/adapter/http/dto"
	"transaction-ledger/internal/core/domain"
	"transaction-ledger/internal/core/ports"
	"transaction-ledger/pkg/apperror"
	"transaction-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

// TransactionHandler ingests transaction batches.
type TransactionHandler struct {
	ledger     ports.LedgerService
	cache      ports.IdempotencyCache // nil = replay protection disabled
	batchLimit int
	ttl        time.Duration
	log        zerolog.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	ledger ports.LedgerService,
	cache ports.IdempotencyCache,
	batchLimit int,
	ttl time.Duration,
	log zerolog.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		ledger:     ledger,
		cache:      cache,
		batchLimit: batchLimit,
		ttl:        ttl,
		log:        log,
	}
}

// Submit handles POST /api/v1/transactions.
// Events are applied in order as one unit. Rejected events still produce
// audit records and do not fail the request.
func (h *TransactionHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	key := c.GetHeader(HeaderIdempotencyKey)
	if key != "" && !dto.ValidIdempotencyKey(key) {
		response.Error(c, apperror.Validation("invalid Idempotency-Key header"))
		return
	}
	if key != "" && h.cache != nil {
		cached, err := h.cache.Get(ctx, key)
		if err != nil {
			h.log.Warn().Err(err).Msg("idempotency cache lookup failed")
		} else if cached != nil {
			c.Header(HeaderReplayed, "true")
			response.Created(c, json.RawMessage(cached))
			return
		}
	}

	// batch size is checked before any per-item validation
	var req dto.SubmitTransactionsRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	if len(req.Transactions) > h.batchLimit {
		response.Error(c, apperror.ErrBatchTooLarge(h.batchLimit))
		return
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	events := make([]domain.Event, 0, len(req.Transactions))
	for _, item := range req.Transactions {
		ev, err := item.ToEvent()
		if err != nil {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
		events = append(events, ev)
	}

	resp := dto.NewSubmitTransactionsResponse(h.ledger.Submit(ctx, events))

	if key != "" && h.cache != nil {
		if body, err := json.Marshal(resp); err != nil {
			h.log.Error().Err(err).Msg("marshal batch response")
		} else if err := h.cache.Set(ctx, key, body, h.ttl); err != nil {
			h.log.Warn().Err(err).Msg("idempotency cache store failed")
		}
	}

	response.Created(c, resp)
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.ErrBodyTooLarge()
	}
	return apperror.Validation(err.Error())
}
