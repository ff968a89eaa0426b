package repository

import (
	"context"
	"time"

	"github.com/trip-linker/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу; промах - (nil, nil)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetPlaceDetail получает детали POI из кеша; промах - (nil, nil)
	GetPlaceDetail(ctx context.Context, id string) (*domain.Place, error)

	// SetPlaceDetail сохраняет детали POI в кеше
	SetPlaceDetail(ctx context.Context, place *domain.Place, ttl time.Duration) error
}
