package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/domain/repository"
	apperrors "github.com/trip-linker/internal/pkg/errors"
	"go.uber.org/zap"
)

const placeDetailKeyPrefix = "amap:poi:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get %s: %v: %w", key, err, apperrors.ErrCacheError)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set %s: %v: %w", key, err, apperrors.ErrCacheError)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetPlaceDetail получает детали POI из кеша
func (r *cacheRepository) GetPlaceDetail(ctx context.Context, id string) (*domain.Place, error) {
	data, err := r.Get(ctx, placeDetailKeyPrefix+id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var place domain.Place
	if err := json.Unmarshal(data, &place); err != nil {
		r.logger.Error("Failed to unmarshal place detail from cache", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("unmarshal place detail: %w", err)
	}

	return &place, nil
}

// SetPlaceDetail сохраняет детали POI в кеше
func (r *cacheRepository) SetPlaceDetail(ctx context.Context, place *domain.Place, ttl time.Duration) error {
	data, err := json.Marshal(place)
	if err != nil {
		r.logger.Error("Failed to marshal place detail", zap.Error(err))
		return fmt.Errorf("marshal place detail: %w", err)
	}

	return r.Set(ctx, placeDetailKeyPrefix+place.ID, data, ttl)
}
