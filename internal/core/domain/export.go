package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportRun describes one export of final balances and the audit trail to
// the reporting store.
type ExportRun struct {
	ID        uuid.UUID `json:"id"`
	Source    string    `json:"source"`
	Accounts  int       `json:"accounts"`
	Events    int       `json:"events"`
	Rejected  int       `json:"rejected"`
	CreatedAt time.Time `json:"created_at"`
}
