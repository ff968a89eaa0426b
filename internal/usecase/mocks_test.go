package usecase_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/domain/repository"
	apperrors "github.com/trip-linker/internal/pkg/errors"
	"github.com/trip-linker/internal/repository/cache"
	"github.com/trip-linker/internal/usecase"
)

// MockPlaceRepository - мок для PlaceRepository
type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) SearchPlaces(ctx context.Context, keywords, city string, limit int) ([]domain.Place, error) {
	args := m.Called(ctx, keywords, city, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Place), args.Error(1)
}

func (m *MockPlaceRepository) GetPlaceDetail(ctx context.Context, id string) (*domain.Place, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockPlaceRepository) GetPlaceDetails(ctx context.Context, ids []string) (map[string]*domain.Place, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.Place), args.Error(1)
}

// MockRouteRepository - мок для RouteRepository
type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) GetTransitRoute(ctx context.Context, q repository.TransitQuery) (*domain.RawRoute, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawRoute), args.Error(1)
}

func (m *MockRouteRepository) GetWalkingRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.RawRoute, error) {
	args := m.Called(ctx, origin, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawRoute), args.Error(1)
}

func (m *MockRouteRepository) GetBicyclingRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.RawRoute, error) {
	args := m.Called(ctx, origin, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawRoute), args.Error(1)
}

func (m *MockRouteRepository) GetDrivingRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.RawRoute, error) {
	args := m.Called(ctx, origin, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawRoute), args.Error(1)
}

// testEngine собирает весь конвейер связывания поверх моков провайдера
type testEngine struct {
	places   *MockPlaceRepository
	routes   *MockRouteRepository
	details  *usecase.PlaceDetailService
	resolver *usecase.PlaceResolver
	segments *usecase.SegmentBuilder
	days     *usecase.DayLinker
	trips    *usecase.TripLinker
}

func newTestEngine(t *testing.T, fallback usecase.WalkFallbackPolicy) *testEngine {
	t.Helper()
	logger := zap.NewNop()

	e := &testEngine{
		places: &MockPlaceRepository{},
		routes: &MockRouteRepository{},
	}
	e.details = usecase.NewPlaceDetailService(e.places, cache.NewMemoryRepository(time.Hour, logger), nil, time.Hour, logger)
	e.resolver = usecase.NewPlaceResolver(e.places, e.details, "B", logger)
	provider := usecase.NewRouteProvider(e.routes, e.details, time.Second, logger)
	normalizer := usecase.NewOptionNormalizer(usecase.DefaultFareRules())
	e.segments = usecase.NewSegmentBuilder(e.resolver, e.details, provider, normalizer, fallback, logger)
	e.days = usecase.NewDayLinker(e.segments, logger)
	e.trips = usecase.NewTripLinker(e.days, e.resolver, e.details, "上海", true, logger)
	return e
}

// expectPlace регистрирует поиск по названию и детальный запрос
func (e *testEngine) expectPlace(name string, p *domain.Place) {
	e.places.On("SearchPlaces", mock.Anything, name, mock.Anything, 1).
		Return([]domain.Place{{ID: p.ID, Name: p.Name}}, nil)
	e.places.On("GetPlaceDetail", mock.Anything, p.ID).Return(p, nil).Maybe()
}

// expectRoutes регистрирует все четыре режима для пары; nil - режим недоступен
func (e *testEngine) expectRoutes(o, d *domain.Place, transit, walk, cycle, drive *domain.RawRoute) [4]*mock.Call {
	ret := func(c *mock.Call, r *domain.RawRoute) *mock.Call {
		if r == nil {
			return c.Return(nil, apperrors.ErrRouteUnavailable)
		}
		return c.Return(r, nil)
	}
	query := mock.MatchedBy(func(q repository.TransitQuery) bool {
		return q.OriginPOI == o.ID && q.DestinationPOI == d.ID
	})
	return [4]*mock.Call{
		ret(e.routes.On("GetTransitRoute", mock.Anything, query), transit),
		ret(e.routes.On("GetWalkingRoute", mock.Anything, *o.Location, *d.Location), walk),
		ret(e.routes.On("GetBicyclingRoute", mock.Anything, *o.Location, *d.Location), cycle),
		ret(e.routes.On("GetDrivingRoute", mock.Anything, *o.Location, *d.Location), drive),
	}
}

func newPlace(id, name, city string, lat, lng float64) *domain.Place {
	return &domain.Place{
		ID:       id,
		Name:     name,
		CityName: city,
		CityCode: "021",
		Location: &domain.Coordinates{Lat: lat, Lng: lng},
	}
}

func newActivity(id, name, start, end string) domain.DayItem {
	return domain.DayItem{
		ID:        id,
		Type:      domain.ItemTypeActivity,
		Title:     "Visit " + name,
		StartTime: start,
		EndTime:   end,
		Location:  &domain.Location{Name: name},
	}
}

func num(v int) domain.FlexNumber {
	return domain.FlexNumber(strconv.Itoa(v))
}

func fee(v float64) domain.FlexNumber {
	return domain.FlexNumber(strconv.FormatFloat(v, 'f', -1, 64))
}

func walkRoute(duration, distance int) *domain.RawRoute {
	return &domain.RawRoute{Paths: []domain.RoutePath{{
		Distance: num(distance),
		Cost:     domain.PathCost{Duration: num(duration)},
	}}}
}

func cycleRoute(duration, distance int) *domain.RawRoute {
	return &domain.RawRoute{Paths: []domain.RoutePath{{
		Distance: num(distance),
		Duration: num(duration),
	}}}
}

func driveRoute(duration, distance int, taxiFee float64) *domain.RawRoute {
	return &domain.RawRoute{Paths: []domain.RoutePath{{
		Distance: num(distance),
		Cost:     domain.PathCost{Duration: num(duration), TaxiFee: fee(taxiFee)},
	}}}
}

func transitRoute(duration, distance int, fare float64, segments ...domain.TransitSegment) *domain.RawRoute {
	return &domain.RawRoute{Transits: []domain.TransitPlan{{
		Distance: num(distance),
		Cost:     domain.TransitCost{Duration: num(duration), TransitFee: fee(fare)},
		Segments: segments,
	}}}
}
