package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"meal-deals/internal/infrastructure/config"
	"meal-deals/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrQueueClosed returned after Close
var ErrQueueClosed = errors.New("queue manager is closed")

// ErrQueueTimeout returned when no slot frees up within MaxWait
var ErrQueueTimeout = errors.New("timed out waiting for a generation slot")

// Status queue status
type Status struct {
	InFlight       int   `json:"in_flight"`
	Waiting        int64 `json:"waiting"`
	ProcessedCount int64 `json:"processed_count"`
	Workers        int   `json:"workers"`
}

// Manager bounds the number of concurrent generation calls
type Manager struct {
	cfg       config.QueueConfig
	slots     chan struct{}
	done      chan struct{}
	closed    atomic.Bool
	waiting   int64
	processed int64
}

// NewManager creates a Manager with cfg.Workers slots
func NewManager(cfg config.QueueConfig) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Manager{
		cfg:   cfg,
		slots: make(chan struct{}, cfg.Workers),
		done:  make(chan struct{}),
	}
}

// Acquire blocks until a slot is free, ctx ends, MaxWait elapses or the
// manager closes. The returned release must be called exactly once.
func (m *Manager) Acquire(ctx context.Context) (func(), error) {
	if m.closed.Load() {
		return nil, ErrQueueClosed
	}

	atomic.AddInt64(&m.waiting, 1)
	defer atomic.AddInt64(&m.waiting, -1)

	var timeout <-chan time.Time
	if m.cfg.MaxWait > 0 {
		timer := time.NewTimer(m.cfg.MaxWait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case m.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout:
		common.LogWarn("generation slot wait timed out",
			zap.Int("in_flight", len(m.slots)),
			zap.Int("workers", m.cfg.Workers),
		)
		return nil, ErrQueueTimeout
	case <-m.done:
		return nil, ErrQueueClosed
	}

	var released atomic.Bool
	return func() {
		if released.CompareAndSwap(false, true) {
			<-m.slots
			atomic.AddInt64(&m.processed, 1)
		}
	}, nil
}

// GetQueueStatus current counters
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		InFlight:       len(m.slots),
		Waiting:        atomic.LoadInt64(&m.waiting),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		Workers:        m.cfg.Workers,
	}
}

// Close wakes all waiters with ErrQueueClosed
func (m *Manager) Close() {
	if m.closed.CompareAndSwap(false, true) {
		close(m.done)
	}
}
