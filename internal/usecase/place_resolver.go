package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/domain/repository"
	apperrors "github.com/trip-linker/internal/pkg/errors"
	"go.uber.org/zap"
)

// PlaceResolver сопоставляет место активности с идентификатором POI провайдера
type PlaceResolver struct {
	places   repository.PlaceRepository
	details  *PlaceDetailService
	idPrefix string
	logger   *zap.Logger
}

// NewPlaceResolver создает резолвер; idPrefix - обязательный префикс
// валидного POI ID (у Amap это "B"), пустой префикс отключает проверку
func NewPlaceResolver(
	places repository.PlaceRepository,
	details *PlaceDetailService,
	idPrefix string,
	logger *zap.Logger,
) *PlaceResolver {
	return &PlaceResolver{
		places:   places,
		details:  details,
		idPrefix: idPrefix,
		logger:   logger,
	}
}

// Resolve возвращает POI ID активности.
//
// Без forceRefresh сначала проверяется ранее сохранённый poi_details.POIId:
// формат, затем детальный запрос. Если он валиден, поиск не выполняется.
// Иначе ищем по названию места в cityHint, затем один раз по адресу.
// Успешный результат записывается в cache под activity.ID.
func (r *PlaceResolver) Resolve(
	ctx context.Context,
	cache *PlaceIDCache,
	activity *domain.DayItem,
	cityHint string,
	forceRefresh bool,
) (string, error) {
	if !forceRefresh {
		if id, ok := r.validateCarriedID(ctx, activity); ok {
			cache.Put(activity.ID, id)
			return id, nil
		}
	}

	if activity.Location == nil {
		return "", fmt.Errorf("activity %s has no location: %w", activity.ID, apperrors.ErrPlaceNotFound)
	}

	for _, keywords := range []string{activity.Location.Name, activity.Location.Address} {
		keywords = strings.TrimSpace(keywords)
		if keywords == "" {
			continue
		}

		places, err := r.places.SearchPlaces(ctx, keywords, cityHint, 1)
		if err != nil {
			r.logger.Warn("Place search failed",
				zap.String("activity_id", activity.ID),
				zap.String("keywords", keywords),
				zap.Error(err))
			continue
		}
		if len(places) == 0 {
			r.logger.Debug("No place found",
				zap.String("keywords", keywords),
				zap.String("city", cityHint))
			continue
		}

		place := places[0]
		if place.HasLocation() && place.CityName != "" {
			r.details.Remember(ctx, &place)
		}
		cache.Put(activity.ID, place.ID)

		r.logger.Debug("Place resolved",
			zap.String("activity_id", activity.ID),
			zap.String("keywords", keywords),
			zap.String("place_id", place.ID))
		return place.ID, nil
	}

	return "", apperrors.ErrPlaceNotFound.WithDetails(map[string]interface{}{
		"activity_id": activity.ID,
		"name":        activity.Location.Name,
		"city":        cityHint,
	})
}

// ValidPlaceID проверяет формат идентификатора без обращения к провайдеру
func (r *PlaceResolver) ValidPlaceID(id string) bool {
	if id == "" || strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return false
	}
	return strings.HasPrefix(id, r.idPrefix)
}

func (r *PlaceResolver) validateCarriedID(ctx context.Context, activity *domain.DayItem) (string, bool) {
	id := activity.POIDetails.POIID()
	if id == "" {
		return "", false
	}

	if !r.ValidPlaceID(id) {
		r.logger.Info("Carried POI id has invalid format, searching instead",
			zap.String("activity_id", activity.ID),
			zap.String("poi_id", id))
		return "", false
	}

	if _, err := r.details.Detail(ctx, id); err != nil {
		r.logger.Info("Carried POI id failed validation, searching instead",
			zap.String("activity_id", activity.ID),
			zap.String("poi_id", id),
			zap.Error(err))
		return "", false
	}

	return id, true
}
