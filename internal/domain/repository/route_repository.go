package repository

import (
	"context"

	"github.com/trip-linker/internal/domain"
)

// TransitQuery - параметры запроса маршрута на общественном транспорте
type TransitQuery struct {
	Origin         domain.Coordinates
	Destination    domain.Coordinates
	OriginPOI      string
	DestinationPOI string
	CityCode       string
}

// RouteRepository определяет четыре независимых запроса маршрутов
type RouteRepository interface {
	GetTransitRoute(ctx context.Context, q TransitQuery) (*domain.RawRoute, error)
	GetWalkingRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.RawRoute, error)
	GetBicyclingRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.RawRoute, error)
	GetDrivingRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.RawRoute, error)
}
