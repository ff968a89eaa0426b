package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/domain/repository"
	"go.uber.org/zap"
)

// PlaceDetailService - детальный запрос POI с двухуровневым кешем:
// память процесса (go-cache) и, если настроен, общий Redis.
// Ошибки кеша не мешают запросу к провайдеру.
type PlaceDetailService struct {
	places repository.PlaceRepository
	memory repository.CacheRepository
	shared repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewPlaceDetailService создает сервис; shared может быть nil
func NewPlaceDetailService(
	places repository.PlaceRepository,
	memory repository.CacheRepository,
	shared repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *PlaceDetailService {
	return &PlaceDetailService{
		places: places,
		memory: memory,
		shared: shared,
		ttl:    ttl,
		logger: logger,
	}
}

// Detail возвращает детали POI
func (s *PlaceDetailService) Detail(ctx context.Context, id string) (*domain.Place, error) {
	if place := s.cached(ctx, id); place != nil {
		return place, nil
	}

	place, err := s.places.GetPlaceDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("place detail %s: %w", id, err)
	}

	s.Remember(ctx, place)
	return place, nil
}

// Prefetch загружает детали нескольких POI пачкой и кладёт их в кеш.
// Возвращает количество загруженных у провайдера записей.
func (s *PlaceDetailService) Prefetch(ctx context.Context, ids []string) int {
	missing := lo.Filter(lo.Uniq(ids), func(id string, _ int) bool {
		return id != "" && s.cached(ctx, id) == nil
	})
	if len(missing) == 0 {
		return 0
	}

	details, err := s.places.GetPlaceDetails(ctx, missing)
	if err != nil {
		s.logger.Warn("Place detail prefetch failed",
			zap.Int("ids", len(missing)),
			zap.Error(err))
		return 0
	}

	for _, place := range details {
		s.Remember(ctx, place)
	}

	s.logger.Debug("Place details prefetched",
		zap.Int("requested", len(missing)),
		zap.Int("found", len(details)))
	return len(details)
}

// Remember кладёт детали в оба уровня кеша
func (s *PlaceDetailService) Remember(ctx context.Context, place *domain.Place) {
	if place == nil || place.ID == "" {
		return
	}
	if err := s.memory.SetPlaceDetail(ctx, place, s.ttl); err != nil {
		s.logger.Warn("Failed to cache place detail in memory", zap.String("id", place.ID), zap.Error(err))
	}
	if s.shared != nil {
		if err := s.shared.SetPlaceDetail(ctx, place, s.ttl); err != nil {
			s.logger.Warn("Failed to cache place detail in redis", zap.String("id", place.ID), zap.Error(err))
		}
	}
}

func (s *PlaceDetailService) cached(ctx context.Context, id string) *domain.Place {
	if place, err := s.memory.GetPlaceDetail(ctx, id); err == nil && place != nil {
		return place
	}
	if s.shared == nil {
		return nil
	}

	place, err := s.shared.GetPlaceDetail(ctx, id)
	if err != nil {
		s.logger.Warn("Shared place cache lookup failed", zap.String("id", id), zap.Error(err))
		return nil
	}
	if place != nil {
		_ = s.memory.SetPlaceDetail(ctx, place, s.ttl)
	}
	return place
}
