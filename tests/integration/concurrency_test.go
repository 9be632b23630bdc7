package integration

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"transaction-ledger/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentBatches fires many batches at once. Each batch deposits and
// then withdraws from a shared account, so interleaving inside a batch would
// show up as a rejected withdrawal or a broken audit sequence.
func TestConcurrentBatches(t *testing.T) {
	app := newTestApp(t, appOptions{})
	defer app.close()

	const workers = 50

	var wg sync.WaitGroup
	var failed atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			base := uint32(i * 2)
			resp := app.do(t, http.MethodPost, "/api/v1/transactions", batch(
				item{Type: "deposit", Client: 1, Tx: base + 1, Amount: amt("2")},
				item{Type: "withdrawal", Client: 1, Tx: base + 2, Amount: amt("1.5")},
			), nil)
			var out batchResult
			decodeInto(t, resp, &out)
			if resp.StatusCode != http.StatusCreated || out.Data.Accepted != 2 {
				failed.Add(1)
				return
			}
			// records of one batch carry consecutive sequence numbers
			if out.Data.Records[1].Seq != out.Data.Records[0].Seq+1 {
				failed.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.Zero(t, failed.Load())

	snap, code := app.account(t, 1)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "25.0000", snap.Available.String())
	assert.Equal(t, "25.0000", snap.Total.String())

	resp := app.do(t, http.MethodGet, "/api/v1/audit?limit=1000", nil, nil)
	var page struct {
		Data struct {
			Records []domain.AuditRecord `json:"records"`
			Total   int                  `json:"total"`
		} `json:"data"`
	}
	decodeInto(t, resp, &page)
	assert.Equal(t, workers*2, page.Data.Total)
	for i, r := range page.Data.Records {
		assert.Equal(t, uint64(i+1), r.Seq)
	}

	resp = app.do(t, http.MethodGet, "/api/v1/audit/verify", nil, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, app.streamer.Close(context.Background()))
	n, err := app.rdb.XLen(context.Background(), "ledger:audit").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(workers*2), n)
}
