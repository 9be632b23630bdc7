package service

import (
	"testing"

	"transaction-ledger/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_GetOrCreate(t *testing.T) {
	l := NewLedger()

	a := l.GetOrCreate(7)
	b := l.GetOrCreate(7)

	assert.Same(t, a, b)
	assert.Equal(t, 1, l.Len())
	assert.True(t, a.Available().IsZero())
}

func TestLedger_SnapshotUnknownClient(t *testing.T) {
	l := NewLedger()

	_, ok := l.Snapshot(3)
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len(), "lookups must not create accounts")
}

func TestLedger_SnapshotsSortedByClient(t *testing.T) {
	l := NewLedger()
	for _, id := range []domain.ClientID{9, 1, 65535, 4} {
		require.NoError(t, l.ApplyDeposit(id, money("1")))
	}

	var ids []domain.ClientID
	for _, s := range l.Snapshots() {
		ids = append(ids, s.Client)
	}
	assert.Equal(t, []domain.ClientID{1, 4, 9, 65535}, ids)
}

func TestLedger_ApplyOperations(t *testing.T) {
	l := NewLedger()

	require.NoError(t, l.ApplyDeposit(1, money("10")))
	require.NoError(t, l.ApplyHold(1, money("4")))
	require.NoError(t, l.ApplyRelease(1, money("1")))
	require.NoError(t, l.ApplyWithdrawal(1, money("2")))
	require.NoError(t, l.ApplyChargeback(1, money("3")))

	snap, ok := l.Snapshot(1)
	require.True(t, ok)
	assert.Equal(t, "5.0000", snap.Available.String())
	assert.Equal(t, "0.0000", snap.Held.String())
	assert.True(t, snap.Locked)

	assert.ErrorIs(t, l.ApplyWithdrawal(1, money("1")), domain.ErrAccountLocked)
	assert.ErrorIs(t, l.ApplyHold(2, money("1")), domain.ErrInsufficientFunds)
}
