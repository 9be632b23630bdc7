package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"transaction-ledger/internal/core/domain"
	"transaction-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// AuditStreamer forwards audit records to a publisher from a single
// goroutine, preserving processing order. By default Observe never blocks:
// when the buffer is full the record is dropped and counted.
type AuditStreamer struct {
	pub      ports.AuditPublisher
	queue    chan domain.AuditRecord
	done     chan struct{}
	log      zerolog.Logger
	mu       sync.RWMutex
	closed   bool
	blocking bool

	published atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

// StreamerOption configures an AuditStreamer.
type StreamerOption func(*AuditStreamer)

// WithBackpressure makes Observe wait for buffer space instead of dropping.
func WithBackpressure() StreamerOption {
	return func(s *AuditStreamer) { s.blocking = true }
}

// NewAuditStreamer starts the forwarding goroutine.
func NewAuditStreamer(pub ports.AuditPublisher, buffer int, log zerolog.Logger, opts ...StreamerOption) *AuditStreamer {
	if buffer <= 0 {
		buffer = 1
	}
	s := &AuditStreamer{
		pub:   pub,
		queue: make(chan domain.AuditRecord, buffer),
		done:  make(chan struct{}),
		log:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Observe implements ports.AuditObserver.
func (s *AuditStreamer) Observe(record domain.AuditRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	if s.blocking {
		// the forwarding goroutine drains until Close, so this send completes
		s.queue <- record
		return
	}

	select {
	case s.queue <- record:
	default:
		s.dropped.Add(1)
		s.log.Warn().Uint64("seq", record.Seq).Msg("audit stream buffer full, record dropped")
	}
}

func (s *AuditStreamer) run() {
	defer close(s.done)
	for record := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := s.pub.Publish(ctx, record)
		cancel()
		if err != nil {
			s.failed.Add(1)
			s.log.Warn().Err(err).Uint64("seq", record.Seq).Msg("failed to publish audit record")
			continue
		}
		s.published.Add(1)
	}
}

// Close stops accepting records and waits until the queue is drained or
// ctx is done.
func (s *AuditStreamer) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.log.Info().
		Uint64("published", s.published.Load()).
		Uint64("dropped", s.dropped.Load()).
		Uint64("failed", s.failed.Load()).
		Msg("audit stream closed")
	return nil
}

func (s *AuditStreamer) Published() uint64 { return s.published.Load() }
func (s *AuditStreamer) Dropped() uint64   { return s.dropped.Load() }
