package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/domain/repository"
	"go.uber.org/zap"
)

type memoryRepository struct {
	store  *gocache.Cache
	logger *zap.Logger
}

// NewMemoryRepository - кеш в памяти процесса (go-cache) с тем же
// интерфейсом, что и Redis; используется как первый уровень и когда Redis выключен
func NewMemoryRepository(defaultTTL time.Duration, logger *zap.Logger) repository.CacheRepository {
	return &memoryRepository{
		store:  gocache.New(defaultTTL, 2*defaultTTL),
		logger: logger,
	}
}

func (r *memoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := r.store.Get(key)
	if !ok {
		return nil, nil
	}
	data, _ := val.([]byte)
	return data, nil
}

func (r *memoryRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	r.store.Set(key, value, ttl)
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, key string) error {
	r.store.Delete(key)
	return nil
}

func (r *memoryRepository) GetPlaceDetail(_ context.Context, id string) (*domain.Place, error) {
	val, ok := r.store.Get(placeDetailKeyPrefix + id)
	if !ok {
		return nil, nil
	}
	place, ok := val.(domain.Place)
	if !ok {
		return nil, nil
	}
	return &place, nil
}

func (r *memoryRepository) SetPlaceDetail(_ context.Context, place *domain.Place, ttl time.Duration) error {
	r.store.Set(placeDetailKeyPrefix+place.ID, *place, ttl)
	r.logger.Debug("Place detail cached in memory", zap.String("id", place.ID))
	return nil
}
