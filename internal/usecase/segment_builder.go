package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/trip-linker/internal/domain"
	apperrors "github.com/trip-linker/internal/pkg/errors"
	"github.com/trip-linker/internal/pkg/utils"
	"go.uber.org/zap"
)

// WalkFallbackPolicy - синтетический пеший вариант для очень близких мест,
// считается по прямой без запросов маршрутов
type WalkFallbackPolicy struct {
	Enabled   bool
	MaxMeters float64
	SpeedMPS  float64
}

// SegmentBuilder строит перемещения между двумя соседними активностями
type SegmentBuilder struct {
	resolver   *PlaceResolver
	details    *PlaceDetailService
	routes     *RouteProvider
	normalizer *OptionNormalizer
	fallback   WalkFallbackPolicy
	logger     *zap.Logger
}

func NewSegmentBuilder(
	resolver *PlaceResolver,
	details *PlaceDetailService,
	routes *RouteProvider,
	normalizer *OptionNormalizer,
	fallback WalkFallbackPolicy,
	logger *zap.Logger,
) *SegmentBuilder {
	return &SegmentBuilder{
		resolver:   resolver,
		details:    details,
		routes:     routes,
		normalizer: normalizer,
		fallback:   fallback,
		logger:     logger,
	}
}

// Build возвращает элементы transportation между origin и dest.
// Ошибки не возвращаются: пара без маршрута даёт пустой результат.
func (b *SegmentBuilder) Build(
	ctx context.Context,
	cache *PlaceIDCache,
	origin, dest *domain.DayItem,
	city string,
	report *domain.LinkReport,
) []domain.DayItem {
	log := b.logger.With(
		zap.String("origin", origin.ID),
		zap.String("destination", dest.ID))

	originID, destID := b.resolvePair(ctx, cache, origin, dest, city, false)

	if originID != "" && destID != "" && b.cityMismatch(ctx, originID, destID, log) {
		cache.Evict(origin.ID, dest.ID)
		report.CityCorrections++
		originID, destID = b.resolvePair(ctx, cache, origin, dest, city, true)
	}

	if originID == "" || destID == "" {
		log.Warn("Places not resolved, pair left unlinked",
			zap.String("origin_name", origin.LocationName()),
			zap.String("destination_name", dest.LocationName()),
			zap.Bool("origin_resolved", originID != ""),
			zap.Bool("destination_resolved", destID != ""))
		return nil
	}

	var options []domain.TransportOption
	if opt, ok := b.shortWalk(ctx, originID, destID); ok {
		report.WalkFallbacks++
		options = []domain.TransportOption{opt}
	} else {
		options = b.buildOptions(ctx, originID, destID, b.cityCode(ctx, originID, city))
	}

	if len(options) == 0 {
		log.Warn("No transport options between places",
			zap.String("origin_place", originID),
			zap.String("destination_place", destID))
		return nil
	}

	return b.emit(origin, dest, options, log)
}

func (b *SegmentBuilder) resolvePair(
	ctx context.Context,
	cache *PlaceIDCache,
	origin, dest *domain.DayItem,
	city string,
	force bool,
) (string, string) {
	return b.resolveOne(ctx, cache, origin, city, force), b.resolveOne(ctx, cache, dest, city, force)
}

func (b *SegmentBuilder) resolveOne(ctx context.Context, cache *PlaceIDCache, item *domain.DayItem, city string, force bool) string {
	if !force {
		if id, ok := cache.Get(item.ID); ok {
			return id
		}
	}

	id, err := b.resolver.Resolve(ctx, cache, item, city, force)
	if err != nil {
		b.logger.Debug("Place resolution failed",
			zap.String("activity_id", item.ID),
			zap.Bool("forced", force),
			zap.Error(err))
		return ""
	}
	return id
}

// cityMismatch - оба города известны и различаются
func (b *SegmentBuilder) cityMismatch(ctx context.Context, originID, destID string, log *zap.Logger) bool {
	o, err := b.details.Detail(ctx, originID)
	if err != nil {
		return false
	}
	d, err := b.details.Detail(ctx, destID)
	if err != nil {
		return false
	}

	same, known := utils.SameCity(o.CityName, d.CityName)
	if !known || same {
		return false
	}

	log.Warn("Adjacent places resolved to different cities, re-resolving",
		zap.String("origin_city", o.CityName),
		zap.String("destination_city", d.CityName),
		zap.Error(apperrors.ErrCityMismatch))
	return true
}

func (b *SegmentBuilder) cityCode(ctx context.Context, originID, city string) string {
	if place, err := b.details.Detail(ctx, originID); err == nil && place.CityCode != "" {
		return place.CityCode
	}
	code, _ := domain.CityCode(utils.NormalizeCityName(city))
	return code
}

func (b *SegmentBuilder) shortWalk(ctx context.Context, originID, destID string) (domain.TransportOption, bool) {
	if !b.fallback.Enabled || b.fallback.SpeedMPS <= 0 {
		return domain.TransportOption{}, false
	}

	o, err := b.details.Detail(ctx, originID)
	if err != nil || !o.HasLocation() {
		return domain.TransportOption{}, false
	}
	d, err := b.details.Detail(ctx, destID)
	if err != nil || !d.HasLocation() {
		return domain.TransportOption{}, false
	}

	meters := utils.DistanceMeters(o.Location.Lat, o.Location.Lng, d.Location.Lat, d.Location.Lng)
	if meters >= b.fallback.MaxMeters {
		return domain.TransportOption{}, false
	}

	distance := int(math.Round(meters))
	duration := int(math.Round(meters / b.fallback.SpeedMPS))
	return domain.TransportOption{
		Mode:            domain.ModeWalk,
		DurationSeconds: duration,
		DistanceMeters:  distance,
		Description:     fmt.Sprintf("Walk (%s, %s)", formatDuration(duration), formatDistance(distance)),
		Notes:           withIcon(domain.ModeWalk, "Places are next to each other"),
	}, true
}

// buildOptions запрашивает четыре режима параллельно; результаты
// раскладываются по слотам ModeOrder, а не в порядке завершения
func (b *SegmentBuilder) buildOptions(ctx context.Context, originID, destID, cityCode string) []domain.TransportOption {
	var (
		slots [len(domain.ModeOrder)]*domain.RawRoute
		wg    sync.WaitGroup
	)

	for i, mode := range domain.ModeOrder {
		wg.Add(1)
		go func(i int, mode domain.TransportMode) {
			defer wg.Done()
			route, err := b.routes.Fetch(ctx, mode, originID, destID, cityCode)
			if err != nil {
				b.logger.Debug("Route unavailable",
					zap.String("mode", string(mode)),
					zap.Error(err))
				return
			}
			slots[i] = route
		}(i, mode)
	}
	wg.Wait()

	options := make([]domain.TransportOption, 0, len(slots))
	for i, route := range slots {
		if route == nil {
			continue
		}
		if opt, ok := b.normalizer.Normalize(domain.ModeOrder[i], route); ok {
			options = append(options, opt)
		}
	}
	return options
}

func (b *SegmentBuilder) emit(origin, dest *domain.DayItem, options []domain.TransportOption, log *zap.Logger) []domain.DayItem {
	start, err := domain.ParseClock(origin.EndTime)
	if err != nil {
		log.Warn("Origin has no usable end time, starting at midnight",
			zap.String("end_time", origin.EndTime))
		start = 0
	}

	items := make([]domain.DayItem, 0, len(options))
	for i, opt := range options {
		cost := opt.Cost
		items = append(items, domain.DayItem{
			ID:          domain.TransportationID(origin.ID, dest.ID, i+1),
			Type:        domain.ItemTypeTransportation,
			StartTime:   domain.FormatClock(start),
			EndTime:     domain.FormatClock(start + opt.DurationSeconds),
			Description: opt.Description,
			Notes:       opt.Notes,
			Cost:        &cost,
			Mode:        opt.Mode,
			Origin:      copyLocation(origin.Location),
			Destination: copyLocation(dest.Location),
		})
	}
	return items
}

func copyLocation(loc *domain.Location) *domain.Location {
	if loc == nil {
		return nil
	}
	c := *loc
	if loc.Coordinates != nil {
		coords := *loc.Coordinates
		c.Coordinates = &coords
	}
	return &c
}
