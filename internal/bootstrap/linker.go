package bootstrap

import (
	"time"

	"github.com/trip-linker/internal/config"
	"github.com/trip-linker/internal/domain/repository"
	"github.com/trip-linker/internal/infrastructure/amap"
	"github.com/trip-linker/internal/pkg/ratelimit"
	"github.com/trip-linker/internal/repository/cache"
	"github.com/trip-linker/internal/usecase"
	"go.uber.org/zap"
)

// NewTripLinker собирает движок связывания поверх Amap.
// redis может быть nil: тогда детали POI кешируются только в памяти процесса.
func NewTripLinker(cfg *config.Config, redis *cache.Redis, log *zap.Logger) *usecase.TripLinker {
	throttle := ratelimit.NewIntervalThrottle(cfg.Amap.MinCallInterval)
	client := amap.NewAmapClient(&cfg.Amap, throttle, log)

	ttl := cfg.Cache.PlaceDetailTTL
	memory := cache.NewMemoryRepository(ttl, log)

	var shared repository.CacheRepository
	if redis != nil {
		shared = cache.NewCacheRepository(redis)
	}

	details := usecase.NewPlaceDetailService(client, memory, shared, ttl, log)
	resolver := usecase.NewPlaceResolver(client, details, cfg.Amap.POIIDPrefix, log)

	// таймаут вызова покрывает ожидание троттлинга и сам HTTP-запрос
	callTimeout := 2 * cfg.Amap.RequestTimeoutDuration()
	routes := usecase.NewRouteProvider(client, details, callTimeout, log)

	normalizer := usecase.NewOptionNormalizer(usecase.FareRules{
		CycleBaseFare: cfg.Linker.CycleBaseFare,
		CycleUnitFare: cfg.Linker.CycleUnitFare,
		CycleBlock:    15 * time.Minute,
		LongWalk:      time.Duration(cfg.Linker.LongWalkMinutes) * time.Minute,
	})

	segments := usecase.NewSegmentBuilder(resolver, details, routes, normalizer, usecase.WalkFallbackPolicy{
		Enabled:   cfg.Linker.WalkFallbackEnabled,
		MaxMeters: cfg.Linker.WalkFallbackMaxMeters,
		SpeedMPS:  cfg.Linker.WalkSpeedMPS,
	}, log)

	days := usecase.NewDayLinker(segments, log)
	return usecase.NewTripLinker(days, resolver, details, cfg.Linker.DefaultCity, cfg.Linker.PrefetchDetails, log)
}
