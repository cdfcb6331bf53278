package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduler-api/internal/model"
	"github.com/clinicdesk/scheduler-api/internal/repository"
	"github.com/clinicdesk/scheduler-api/pkg/messaging"
	"github.com/clinicdesk/scheduler-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:    50,
		PollInterval: 2 * time.Second,
		MaxRetries:   5,
		RetryBackoff: 30 * time.Second,
	}
}

// OutboxProcessor drains pending outbox events onto the broker. The
// write path records events transactionally with the mutation; this
// loop is the only publisher, so a broker outage delays notifications
// but never loses them.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 2 * time.Second
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger.With().Str("component", "outbox_processor").Logger(),
		metrics: m,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info().
		Int("batch_size", p.config.BatchSize).
		Dur("poll_interval", p.config.PollInterval).
		Msg("outbox processor started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("outbox processor stopped")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error().Err(err).Msg("failed to process outbox batch")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.OutboxLatency.Observe(time.Since(start).Seconds())
		}
	}()

	events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error().Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("failed to process event")
		}
	}

	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	err := p.broker.Publish(ctx, messaging.ScheduleChannel, messaging.Event{
		Type:    event.EventType,
		Payload: event.Payload,
	})
	if err != nil {
		return p.handleFailure(ctx, event, err)
	}

	if p.metrics != nil {
		p.metrics.OutboxEventsProcessed.Inc()
	}
	if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

// handleFailure schedules a retry with linear backoff until the retry
// budget runs out, then parks the event as failed for operator review.
func (p *OutboxProcessor) handleFailure(ctx context.Context, event *model.OutboxEvent, pubErr error) error {
	if event.RetryCount+1 < p.config.MaxRetries {
		if p.metrics != nil {
			p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()
		}
		retryAt := time.Now().Add(p.config.RetryBackoff * time.Duration(event.RetryCount+1))
		if err := p.repo.MarkFailed(ctx, event.ID, pubErr.Error(), &retryAt); err != nil {
			return fmt.Errorf("failed to schedule retry: %w", err)
		}
		return pubErr
	}

	if p.metrics != nil {
		p.metrics.OutboxEventsFailed.Inc()
	}
	if err := p.repo.MarkFailed(ctx, event.ID, pubErr.Error(), nil); err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return pubErr
}
