package service

import (
	"context"
	"sync"
	"testing"

	"transaction-ledger/internal/core/domain"
	"transaction-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_SubmitAndQuery(t *testing.T) {
	svc := NewLedgerService(NewProcessor(zerolog.Nop()))
	ctx := context.Background()

	recs := svc.Submit(ctx, []domain.Event{
		domain.Deposit(1, 1, money("10")),
		domain.Withdrawal(1, 2, money("20")),
	})
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Accepted())
	assert.Equal(t, domain.ReasonInsufficientFunds, recs[1].Reason)

	snap, ok := svc.Snapshot(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "10.0000", snap.Total.String())

	_, ok = svc.Snapshot(ctx, 2)
	assert.False(t, ok)

	page, total := svc.Audit(ctx, 2, 10)
	assert.Equal(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, uint64(2), page[0].Seq)

	assert.NoError(t, svc.VerifyAudit(ctx))

	snaps, audit := svc.Checkpoint(ctx)
	assert.Len(t, snaps, 1)
	assert.Len(t, audit, 2)
}

func TestLedgerService_VerifyAuditReportsBrokenChain(t *testing.T) {
	proc := NewProcessor(zerolog.Nop())
	svc := NewLedgerService(proc)
	svc.Submit(context.Background(), []domain.Event{domain.Deposit(1, 1, money("1"))})

	proc.AuditLog().records[0].Digest = "00"

	err := svc.VerifyAudit(context.Background())
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_004", appErr.Code)
	assert.ErrorIs(t, err, ErrAuditChainBroken)
}

func TestLedgerService_ConcurrentBatchesStayAtomic(t *testing.T) {
	svc := NewLedgerService(NewProcessor(zerolog.Nop()))
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			base := domain.TxID(w * 2)
			svc.Submit(ctx, []domain.Event{
				domain.Deposit(1, base+1, money("2")),
				domain.Withdrawal(1, base+2, money("1")),
			})
		}(w)
	}
	wg.Wait()

	snap, ok := svc.Snapshot(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "20.0000", snap.Available.String())

	_, audit := svc.Checkpoint(ctx)
	require.Len(t, audit, workers*2)
	for i := 0; i < len(audit); i += 2 {
		assert.Equal(t, domain.KindDeposit, audit[i].Kind)
		assert.Equal(t, domain.KindWithdrawal, audit[i+1].Kind)
		assert.Equal(t, audit[i].Tx+1, audit[i+1].Tx, "batch events must be adjacent")
	}
	assert.NoError(t, svc.VerifyAudit(ctx))
}
