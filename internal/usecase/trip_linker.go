package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/trip-linker/internal/domain"
	apperrors "github.com/trip-linker/internal/pkg/errors"
	"github.com/trip-linker/internal/pkg/validator"
	"go.uber.org/zap"
)

// TripLinker связывает все дни поездки, используя общий PlaceIDCache
type TripLinker struct {
	days        *DayLinker
	resolver    *PlaceResolver
	details     *PlaceDetailService
	defaultCity string
	prefetch    bool
	logger      *zap.Logger
}

func NewTripLinker(
	days *DayLinker,
	resolver *PlaceResolver,
	details *PlaceDetailService,
	defaultCity string,
	prefetch bool,
	logger *zap.Logger,
) *TripLinker {
	return &TripLinker{
		days:        days,
		resolver:    resolver,
		details:     details,
		defaultCity: defaultCity,
		prefetch:    prefetch,
		logger:      logger,
	}
}

// LinkTrip изменяет trip на месте и возвращает его вместе с отчётом.
// Ошибка возвращается только для невалидных полей самой поездки
// (trip_id, даты). Элементы дней не проверяются: всё, что не является
// связываемой активностью, проходит без изменений, а сбои провайдера
// оставляют отдельные пары без перемещений.
func (l *TripLinker) LinkTrip(ctx context.Context, trip *domain.Trip) (*domain.Trip, *domain.LinkReport, error) {
	if trip == nil {
		return nil, nil, apperrors.ErrInvalidTrip
	}
	if err := validator.Validate(trip); err != nil {
		return nil, nil, apperrors.ErrInvalidTrip.WithDetails(map[string]interface{}{
			"trip_id": trip.TripID,
			"reason":  err.Error(),
		})
	}

	started := time.Now()
	city := strings.TrimSpace(trip.Destination)
	if city == "" {
		city = l.defaultCity
	}

	l.logger.Info("Linking trip",
		zap.String("trip_id", trip.TripID),
		zap.String("city", city),
		zap.Int("days", len(trip.Days)))

	if l.prefetch {
		l.prefetchCarriedIDs(ctx, trip)
	}

	cache := NewPlaceIDCache()
	report := &domain.LinkReport{Days: len(trip.Days)}
	for i := range trip.Days {
		l.days.LinkDay(ctx, cache, &trip.Days[i], city, report)
	}

	l.logger.Info("Trip linked",
		zap.String("trip_id", trip.TripID),
		zap.Int("pairs", report.PairsConsidered),
		zap.Int("linked", report.PairsLinked),
		zap.Int("segments", report.SegmentsEmitted),
		zap.Int("city_corrections", report.CityCorrections),
		zap.Int("cached_places", cache.Len()),
		zap.Duration("elapsed", time.Since(started)))

	return trip, report, nil
}

// prefetchCarriedIDs загружает пачкой детали всех ранее сохранённых POIId,
// чтобы их проверка в PlaceResolver не требовала отдельных запросов
func (l *TripLinker) prefetchCarriedIDs(ctx context.Context, trip *domain.Trip) {
	ids := lo.FlatMap(trip.Days, func(day domain.Day, _ int) []string {
		return lo.FilterMap(day.Activities, func(item domain.DayItem, _ int) (string, bool) {
			id := item.POIDetails.POIID()
			return id, item.IsActivity() && l.resolver.ValidPlaceID(id)
		})
	})
	if len(ids) == 0 {
		return
	}

	fetched := l.details.Prefetch(ctx, ids)
	l.logger.Debug("Carried POI ids prefetched",
		zap.Int("ids", len(ids)),
		zap.Int("fetched", fetched))
}
