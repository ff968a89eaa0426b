package repository

import (
	"context"

	"github.com/trip-linker/internal/domain"
)

// StreamRepository - интерфейс для работы с Redis Streams
type StreamRepository interface {
	// ConsumeBatch читает до maxCount новых сообщений без блокировки
	ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error)

	// AckMessages подтверждает обработку сообщений
	AckMessages(ctx context.Context, stream, group string, messageIDs []string) error

	// CreateConsumerGroup создаёт consumer group
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// PublishToStream публикует сообщение в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
