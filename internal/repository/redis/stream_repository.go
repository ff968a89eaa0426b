package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/domain/repository"
	"go.uber.org/zap"
)

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStreamRepository создает новый экземпляр StreamRepository
func NewStreamRepository(client *redis.Client, logger *zap.Logger) repository.StreamRepository {
	return &streamRepository{
		client: client,
		logger: logger,
	}
}

// CreateConsumerGroup создаёт consumer group для стрима
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	// MKSTREAM автоматически создаст стрим, если он не существует
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil {
		// Игнорируем ошибку BUSYGROUP - группа уже существует
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			r.logger.Debug("Consumer group already exists",
				zap.String("stream", stream),
				zap.String("group", group))
			return nil
		}
		r.logger.Error("Failed to create consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	r.logger.Info("Consumer group created successfully",
		zap.String("stream", stream),
		zap.String("group", group))
	return nil
}

// ConsumeBatch читает до maxCount непрочитанных сообщений группы.
// Блокировка отрицательная - при пустой очереди сразу возвращается пустой срез.
func (r *streamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	result, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    int64(maxCount),
		Block:    -1,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	var messages []domain.StreamMessage
	for _, s := range result {
		for _, msg := range s.Messages {
			data, ok := msg.Values["data"].(string)
			if !ok {
				r.logger.Warn("Message does not contain 'data' field",
					zap.String("message_id", msg.ID))
				data = ""
			}
			messages = append(messages, domain.StreamMessage{
				ID:   msg.ID,
				Data: data,
			})
		}
	}

	return messages, nil
}

// AckMessages подтверждает обработку сообщений
func (r *streamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	err := r.client.XAck(ctx, stream, group, messageIDs...).Err()
	if err != nil {
		r.logger.Error("Failed to acknowledge messages",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Int("count", len(messageIDs)),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge messages: %w", err)
	}

	r.logger.Debug("Messages acknowledged",
		zap.Int("count", len(messageIDs)))
	return nil
}

// PublishToStream публикует сообщение в стрим
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error("Failed to marshal data",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	result, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()

	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", result))
	return nil
}
