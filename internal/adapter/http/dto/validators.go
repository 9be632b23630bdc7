package dto

import (
	"regexp"

	"transaction-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.:]{1,128}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ledger_amount", validateLedgerAmount)
		_ = v.RegisterValidation("safe_id", validateSafeID)
	}
}

// validateLedgerAmount accepts decimal text with at most four fractional
// digits that fits the money range. Sign is checked by the ledger itself.
func validateLedgerAmount(fl validator.FieldLevel) bool {
	_, err := domain.ParseMoney(fl.Field().String())
	return err == nil
}

// validateSafeID allows alphanumeric, underscore, dash, dot and colon.
func validateSafeID(fl validator.FieldLevel) bool {
	return ValidIdempotencyKey(fl.Field().String())
}

// ValidIdempotencyKey reports whether key is usable as a batch idempotency key.
func ValidIdempotencyKey(key string) bool {
	return safeStringRe.MatchString(key)
}
