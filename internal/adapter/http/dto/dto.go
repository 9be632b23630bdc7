package dto

import (
	"fmt"

	"transaction-ledger/internal/core/domain"
)

// TransactionItem is one event in a submitted batch. Client and tx are
// pointers so that zero ids still satisfy "required".
type TransactionItem struct {
	Type   string  `json:"type" binding:"required,oneof=deposit withdrawal dispute resolve chargeback"`
	Client *uint16 `json:"client" binding:"required"`
	Tx     *uint32 `json:"tx" binding:"required"`
	Amount *string `json:"amount,omitempty" binding:"omitempty,ledger_amount"`
}

// ToEvent converts the item into a domain event. Amounts on dispute-related
// items are dropped.
func (i TransactionItem) ToEvent() (domain.Event, error) {
	kind, err := domain.ParseKind(i.Type)
	if err != nil {
		return domain.Event{}, err
	}
	if i.Client == nil || i.Tx == nil {
		return domain.Event{}, fmt.Errorf("client and tx are required")
	}

	ev := domain.Event{Kind: kind, Client: domain.ClientID(*i.Client), Tx: domain.TxID(*i.Tx)}
	if i.Amount != nil && kind.CarriesAmount() {
		amount, err := domain.ParseMoney(*i.Amount)
		if err != nil {
			return domain.Event{}, fmt.Errorf("amount: %w", err)
		}
		ev.Amount = &amount
	}
	return ev, nil
}

// SubmitTransactionsRequest is the request body for POST /api/v1/transactions.
type SubmitTransactionsRequest struct {
	Transactions []TransactionItem `json:"transactions" binding:"required,min=1,dive"`
}

// SubmitTransactionsResponse lists the audit records produced by a batch.
type SubmitTransactionsResponse struct {
	Accepted int                  `json:"accepted"`
	Rejected int                  `json:"rejected"`
	Records  []domain.AuditRecord `json:"records"`
}

// NewSubmitTransactionsResponse counts outcomes of records.
func NewSubmitTransactionsResponse(records []domain.AuditRecord) SubmitTransactionsResponse {
	resp := SubmitTransactionsResponse{Records: records}
	for _, r := range records {
		if r.Accepted() {
			resp.Accepted++
		} else {
			resp.Rejected++
		}
	}
	return resp
}

// AccountsResponse is the response body for GET /api/v1/accounts.
type AccountsResponse struct {
	Accounts []domain.Snapshot `json:"accounts"`
	Count    int               `json:"count"`
}

// AuditPageResponse is the response body for GET /api/v1/audit.
type AuditPageResponse struct {
	Records []domain.AuditRecord `json:"records"`
	FromSeq uint64               `json:"from_seq"`
	Limit   int                  `json:"limit"`
	Total   int                  `json:"total"`
}

// AuditVerifyResponse is the response body for GET /api/v1/audit/verify.
type AuditVerifyResponse struct {
	Valid   bool `json:"valid"`
	Records int  `json:"records"`
}

// TokenResponse describes an issued operator token.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}
