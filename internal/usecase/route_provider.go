package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/domain/repository"
	apperrors "github.com/trip-linker/internal/pkg/errors"
	"go.uber.org/zap"
)

// RouteProvider запрашивает сырые маршруты между двумя POI.
// Все ошибки сводятся к ErrRouteUnavailable; каждый вызов ограничен callTimeout.
type RouteProvider struct {
	routes      repository.RouteRepository
	details     *PlaceDetailService
	callTimeout time.Duration
	logger      *zap.Logger
}

func NewRouteProvider(
	routes repository.RouteRepository,
	details *PlaceDetailService,
	callTimeout time.Duration,
	logger *zap.Logger,
) *RouteProvider {
	return &RouteProvider{
		routes:      routes,
		details:     details,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Fetch выбирает запрос по режиму
func (p *RouteProvider) Fetch(ctx context.Context, mode domain.TransportMode, originID, destID, cityCode string) (*domain.RawRoute, error) {
	switch mode {
	case domain.ModeTransit:
		return p.Transit(ctx, originID, destID, cityCode)
	case domain.ModeWalk:
		return p.Walk(ctx, originID, destID)
	case domain.ModeCycle:
		return p.Cycle(ctx, originID, destID)
	case domain.ModeDrive:
		return p.Drive(ctx, originID, destID)
	default:
		return nil, fmt.Errorf("unknown mode %q: %w", mode, apperrors.ErrRouteUnavailable)
	}
}

func (p *RouteProvider) Transit(ctx context.Context, originID, destID, cityCode string) (*domain.RawRoute, error) {
	return p.fetch(ctx, domain.ModeTransit, originID, destID, func(ctx context.Context, o, d domain.Coordinates) (*domain.RawRoute, error) {
		return p.routes.GetTransitRoute(ctx, repository.TransitQuery{
			Origin:         o,
			Destination:    d,
			OriginPOI:      originID,
			DestinationPOI: destID,
			CityCode:       cityCode,
		})
	})
}

func (p *RouteProvider) Walk(ctx context.Context, originID, destID string) (*domain.RawRoute, error) {
	return p.fetch(ctx, domain.ModeWalk, originID, destID, p.routes.GetWalkingRoute)
}

func (p *RouteProvider) Cycle(ctx context.Context, originID, destID string) (*domain.RawRoute, error) {
	return p.fetch(ctx, domain.ModeCycle, originID, destID, p.routes.GetBicyclingRoute)
}

func (p *RouteProvider) Drive(ctx context.Context, originID, destID string) (*domain.RawRoute, error) {
	return p.fetch(ctx, domain.ModeDrive, originID, destID, p.routes.GetDrivingRoute)
}

type routeCall func(ctx context.Context, origin, destination domain.Coordinates) (*domain.RawRoute, error)

func (p *RouteProvider) fetch(ctx context.Context, mode domain.TransportMode, originID, destID string, call routeCall) (*domain.RawRoute, error) {
	if p.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.callTimeout)
		defer cancel()
	}

	origin, err := p.coordinates(ctx, originID)
	if err != nil {
		return nil, fmt.Errorf("%s route %s -> %s: %v: %w", mode, originID, destID, err, apperrors.ErrRouteUnavailable)
	}
	destination, err := p.coordinates(ctx, destID)
	if err != nil {
		return nil, fmt.Errorf("%s route %s -> %s: %v: %w", mode, originID, destID, err, apperrors.ErrRouteUnavailable)
	}

	route, err := call(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("%s route %s -> %s: %v: %w", mode, originID, destID, err, apperrors.ErrRouteUnavailable)
	}
	if route == nil {
		return nil, fmt.Errorf("%s route %s -> %s: empty response: %w", mode, originID, destID, apperrors.ErrRouteUnavailable)
	}

	route.Mode = mode
	return route, nil
}

func (p *RouteProvider) coordinates(ctx context.Context, id string) (domain.Coordinates, error) {
	place, err := p.details.Detail(ctx, id)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if !place.HasLocation() {
		return domain.Coordinates{}, fmt.Errorf("place %s has no location", id)
	}
	return *place.Location, nil
}
