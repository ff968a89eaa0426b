package linking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/domain/repository"
	apperrors "github.com/trip-linker/internal/pkg/errors"
	"github.com/trip-linker/internal/worker"
	"go.uber.org/zap"
)

const (
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	publishBackoff  = 200 * time.Millisecond
)

// TripLinker - связывание поездки; реализуется usecase.TripLinker
type TripLinker interface {
	LinkTrip(ctx context.Context, trip *domain.Trip) (*domain.Trip, *domain.LinkReport, error)
}

// TripLinkWorker читает stream:trip:link и публикует результат в stream:trip:linked
type TripLinkWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	linker     TripLinker
	batchSize  int
	maxRetries int
}

// NewTripLinkWorker создает новый TripLinkWorker
func NewTripLinkWorker(
	streamRepo repository.StreamRepository,
	linker TripLinker,
	consumerGroup string,
	batchSize int,
	maxRetries int,
	logger *zap.Logger,
) *TripLinkWorker {
	if batchSize <= 0 {
		batchSize = 1
	}

	return &TripLinkWorker{
		BaseWorker: worker.NewBaseWorker("trip-link", consumerGroup, logger),
		streamRepo: streamRepo,
		linker:     linker,
		batchSize:  batchSize,
		maxRetries: maxRetries,
	}
}

// Start запускает воркер
func (w *TripLinkWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting TripLinkWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamTripLink, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.ProcessBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.Pause(ctx, time.Second)
				continue
			}

			if processed == 0 {
				w.Pause(ctx, emptyQueueSleep)
			}
		}
	}
}

// ProcessBatch читает и обрабатывает пачку сообщений.
// Возвращает количество прочитанных сообщений.
func (w *TripLinkWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(ctx, domain.StreamTripLink, w.ConsumerGroup(), w.ConsumerName(), w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger.Info("Processing batch", zap.Int("message_count", len(messages)))

	acked := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			// битое сообщение подтверждаем, чтобы не застревало
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			acked = append(acked, msg.ID)
			continue
		}

		result := w.link(ctx, event)
		if err := w.publish(ctx, result); err != nil {
			logger.Error("Failed to publish linked trip",
				zap.String("request_id", event.RequestID.String()),
				zap.Error(err))
		}
		acked = append(acked, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamTripLink, w.ConsumerGroup(), acked); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

func (w *TripLinkWorker) link(ctx context.Context, event *domain.LinkTripEvent) *domain.TripLinkedEvent {
	result := &domain.TripLinkedEvent{RequestID: event.RequestID}

	trip, report, err := w.linker.LinkTrip(ctx, event.Trip)
	if err != nil {
		w.Logger().Warn("Trip not linked",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
		result.Error = errorMessage(err)
		return result
	}

	result.Trip = trip
	result.Report = report
	return result
}

func (w *TripLinkWorker) publish(ctx context.Context, event *domain.TripLinkedEvent) error {
	var err error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			w.Pause(ctx, publishBackoff*time.Duration(attempt))
		}
		if err = w.streamRepo.PublishToStream(ctx, domain.StreamTripLinked, event); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("publish after %d attempts: %w", w.maxRetries+1, err)
}

func parseMessage(msg domain.StreamMessage) (*domain.LinkTripEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.LinkTripEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.RequestID == uuid.Nil {
		return nil, fmt.Errorf("missing request_id")
	}
	if event.Trip == nil {
		return nil, fmt.Errorf("missing trip")
	}

	return &event, nil
}

func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if reason, ok := appErr.Details["reason"].(string); ok {
			return fmt.Sprintf("%s: %s", appErr.Error(), reason)
		}
		return appErr.Error()
	}
	return err.Error()
}
