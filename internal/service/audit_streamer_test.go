package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"transaction-ledger/internal/core/domain"
	"transaction-ledger/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuditStreamer_PublishesInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pub := mocks.NewMockAuditPublisher(ctrl)
	var mu sync.Mutex
	var seqs []uint64
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r domain.AuditRecord) error {
			mu.Lock()
			seqs = append(seqs, r.Seq)
			mu.Unlock()
			return nil
		}).Times(5)

	s := NewAuditStreamer(pub, 16, zerolog.Nop())
	for i := 1; i <= 5; i++ {
		s.Observe(domain.AuditRecord{Seq: uint64(i)})
	}
	require.NoError(t, s.Close(context.Background()))

	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, seqs)
	assert.Equal(t, uint64(5), s.Published())
	assert.Equal(t, uint64(0), s.Dropped())
}

func TestAuditStreamer_DropsWhenFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pub := mocks.NewMockAuditPublisher(ctrl)
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.AuditRecord) error {
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
			return nil
		}).Times(2)

	s := NewAuditStreamer(pub, 1, zerolog.Nop())
	s.Observe(domain.AuditRecord{Seq: 1})
	<-started // seq 1 is in flight, the buffer is empty again

	s.Observe(domain.AuditRecord{Seq: 2})
	s.Observe(domain.AuditRecord{Seq: 3})
	assert.Equal(t, uint64(1), s.Dropped())

	close(release)
	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, uint64(2), s.Published())
}

func TestAuditStreamer_BackpressureKeepsEveryRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pub := mocks.NewMockAuditPublisher(ctrl)
	release := make(chan struct{})
	var mu sync.Mutex
	var seqs []uint64
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r domain.AuditRecord) error {
			<-release
			mu.Lock()
			seqs = append(seqs, r.Seq)
			mu.Unlock()
			return nil
		}).Times(5)

	s := NewAuditStreamer(pub, 1, zerolog.Nop(), WithBackpressure())

	observed := make(chan struct{})
	go func() {
		defer close(observed)
		for i := 1; i <= 5; i++ {
			s.Observe(domain.AuditRecord{Seq: uint64(i)})
		}
	}()

	select {
	case <-observed:
		t.Fatal("Observe returned while the publisher was stalled")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-observed
	require.NoError(t, s.Close(context.Background()))

	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, seqs)
	assert.Equal(t, uint64(5), s.Published())
	assert.Equal(t, uint64(0), s.Dropped())
}

func TestAuditStreamer_PublishErrorDoesNotStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pub := mocks.NewMockAuditPublisher(ctrl)
	gomock.InOrder(
		pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down")),
		pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil),
	)

	s := NewAuditStreamer(pub, 4, zerolog.Nop())
	s.Observe(domain.AuditRecord{Seq: 1})
	s.Observe(domain.AuditRecord{Seq: 2})
	require.NoError(t, s.Close(context.Background()))

	assert.Equal(t, uint64(1), s.Published())
}

func TestAuditStreamer_ObserveAfterClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := NewAuditStreamer(mocks.NewMockAuditPublisher(ctrl), 4, zerolog.Nop())
	require.NoError(t, s.Close(context.Background()))
	require.NoError(t, s.Close(context.Background()))

	s.Observe(domain.AuditRecord{Seq: 1})
	assert.Equal(t, uint64(1), s.Dropped())
}

func TestAuditStreamer_CloseHonoursContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pub := mocks.NewMockAuditPublisher(ctrl)
	release := make(chan struct{})
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.AuditRecord) error {
			<-release
			return nil
		})

	s := NewAuditStreamer(pub, 4, zerolog.Nop())
	s.Observe(domain.AuditRecord{Seq: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Close(ctx), context.DeadlineExceeded)

	close(release)
}

func TestAuditStreamer_WiredAsProcessorObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pub := mocks.NewMockAuditPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	s := NewAuditStreamer(pub, 8, zerolog.Nop())
	p := NewProcessor(zerolog.Nop(), s)
	p.Process(domain.Deposit(1, 1, money("1")))
	p.Process(domain.Dispute(1, 1))

	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, uint64(2), s.Published())
}
