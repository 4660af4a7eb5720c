package service

import (
	"context"
	"errors"
	"time"

	"meal-deals/internal/core/ai/provider"
	"meal-deals/internal/core/ai/queue"
	"meal-deals/internal/infrastructure/config"
	"meal-deals/internal/pkg/common"
	"meal-deals/internal/pkg/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const breakerName = "generation"

// Service guards a Provider with a slot limit and a circuit breaker. Every
// failure is returned as common.ErrGenerationUnavailable.
type Service struct {
	provider provider.Provider
	queue    *queue.Manager
	cb       *gobreaker.CircuitBreaker[*provider.Response]
}

// NewService creates a Service
func NewService(p provider.Provider, q *queue.Manager, cfg config.BreakerConfig) *Service {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*provider.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// a caller giving up says nothing about the provider
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.LogWarn("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Service{
		provider: p,
		queue:    q,
		cb:       cb,
	}
}

// Generate runs one completion
func (s *Service) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	model := req.Model
	if model == "" {
		model = s.provider.GetModel()
	}
	requestID := common.RequestIDFrom(ctx)

	if s.queue != nil {
		release, err := s.queue.Acquire(ctx)
		if err != nil {
			metrics.RecordGeneration(metrics.OutcomeRejected, 0)
			return nil, common.ErrGenerationUnavailable.Wrap(err)
		}
		defer release()
	}

	start := time.Now()
	resp, err := s.cb.Execute(func() (*provider.Response, error) {
		callCtx := ctx
		if timeout := s.provider.GetTimeout(); timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return s.provider.Generate(callCtx, req)
	})
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordGeneration(metrics.OutcomeBreakerOpen, duration)
			common.LogWarn("generation request rejected by circuit breaker",
				zap.String("model", model),
				zap.String("request_id", requestID),
			)
		} else {
			metrics.RecordGeneration(metrics.OutcomeError, duration)
			common.LogAICall(model, duration, err, requestID)
		}
		return nil, common.ErrGenerationUnavailable.Wrap(err)
	}

	metrics.RecordGeneration(metrics.OutcomeSuccess, duration)
	common.LogAICall(model, duration, nil, requestID)
	return resp, nil
}

// State current breaker state
func (s *Service) State() gobreaker.State {
	return s.cb.State()
}

// QueueStatus slot usage
func (s *Service) QueueStatus() *queue.Status {
	if s.queue == nil {
		return &queue.Status{}
	}
	return s.queue.GetQueueStatus()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
