package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/domain/repository"
	"github.com/trip-linker/internal/usecase"
)

func clockDiff(t *testing.T, start, end string) int {
	t.Helper()
	s, err := domain.ParseClock(start)
	require.NoError(t, err)
	e, err := domain.ParseClock(end)
	require.NoError(t, err)
	if e < s {
		e += 24 * 3600
	}
	return e - s
}

func TestSegmentBuilder_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("mode order is fixed regardless of latency", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		a := newPlace("BA", "A", "上海市", 31.230, 121.470)
		b := newPlace("BB", "B", "上海市", 31.250, 121.500)
		e.expectPlace("A", a)
		e.expectPlace("B", b)

		calls := e.expectRoutes(a, b,
			transitRoute(1500, 6000, 3),
			walkRoute(3600, 4200),
			cycleRoute(1300, 4300),
			driveRoute(700, 5000, 18),
		)
		calls[0].After(90 * time.Millisecond)
		calls[1].After(60 * time.Millisecond)
		calls[2].After(30 * time.Millisecond)

		origin := newActivity("a", "A", "09:00:00", "10:00:00")
		dest := newActivity("b", "B", "11:00:00", "12:00:00")
		report := &domain.LinkReport{}

		items := e.segments.Build(ctx, usecase.NewPlaceIDCache(), &origin, &dest, "上海", report)

		require.Len(t, items, 4)
		modes := make([]domain.TransportMode, 0, len(items))
		for i, item := range items {
			modes = append(modes, item.Mode)
			assert.Equal(t, domain.TransportationID("a", "b", i+1), item.ID)
			assert.Equal(t, domain.ItemTypeTransportation, item.Type)
			assert.Equal(t, "10:00:00", item.StartTime)
			assert.NotEmpty(t, item.Notes)
			require.NotNil(t, item.Cost)
			assert.Equal(t, "A", item.Origin.Name)
			assert.Equal(t, "B", item.Destination.Name)
		}
		assert.Equal(t, []domain.TransportMode{domain.ModeTransit, domain.ModeWalk, domain.ModeCycle, domain.ModeDrive}, modes)
		assert.Equal(t, 1500, clockDiff(t, items[0].StartTime, items[0].EndTime))
		assert.Equal(t, 3600, clockDiff(t, items[1].StartTime, items[1].EndTime))
		assert.Equal(t, 1300, clockDiff(t, items[2].StartTime, items[2].EndTime))
		assert.Equal(t, 700, clockDiff(t, items[3].StartTime, items[3].EndTime))
	})

	t.Run("transit query carries city code and place ids", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		a := newPlace("BA", "A", "上海市", 31.230, 121.470)
		b := newPlace("BB", "B", "上海市", 31.250, 121.500)
		e.expectPlace("A", a)
		e.expectPlace("B", b)
		e.expectRoutes(a, b, transitRoute(1500, 6000, 3), nil, nil, nil)

		origin := newActivity("a", "A", "09:00:00", "10:00:00")
		dest := newActivity("b", "B", "11:00:00", "12:00:00")

		items := e.segments.Build(ctx, usecase.NewPlaceIDCache(), &origin, &dest, "上海", &domain.LinkReport{})

		require.Len(t, items, 1)
		e.routes.AssertCalled(t, "GetTransitRoute", mock.Anything, mock.MatchedBy(func(q repository.TransitQuery) bool {
			return q.CityCode == "021" &&
				q.OriginPOI == "BA" &&
				q.DestinationPOI == "BB" &&
				q.Origin == *a.Location
		}))
	})

	t.Run("end time wraps past midnight", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		a := newPlace("BA", "A", "上海市", 31.230, 121.470)
		b := newPlace("BB", "B", "上海市", 31.231, 121.472)
		e.expectPlace("A", a)
		e.expectPlace("B", b)
		e.expectRoutes(a, b, nil, walkRoute(1200, 900), nil, nil)

		origin := newActivity("a", "A", "22:00:00", "23:50:00")
		dest := newActivity("b", "B", "", "")

		items := e.segments.Build(ctx, usecase.NewPlaceIDCache(), &origin, &dest, "上海", &domain.LinkReport{})

		require.Len(t, items, 1)
		assert.Equal(t, "23:50:00", items[0].StartTime)
		assert.Equal(t, "00:10:00", items[0].EndTime)
	})

	t.Run("missing origin end time starts at midnight", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		a := newPlace("BA", "A", "上海市", 31.230, 121.470)
		b := newPlace("BB", "B", "上海市", 31.231, 121.472)
		e.expectPlace("A", a)
		e.expectPlace("B", b)
		e.expectRoutes(a, b, nil, walkRoute(600, 700), nil, nil)

		origin := newActivity("a", "A", "", "")
		dest := newActivity("b", "B", "", "")

		items := e.segments.Build(ctx, usecase.NewPlaceIDCache(), &origin, &dest, "上海", &domain.LinkReport{})

		require.Len(t, items, 1)
		assert.Equal(t, "00:00:00", items[0].StartTime)
		assert.Equal(t, "00:10:00", items[0].EndTime)
	})

	t.Run("both resolutions failing emits nothing", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		e.places.On("SearchPlaces", mock.Anything, mock.Anything, mock.Anything, 1).Return([]domain.Place{}, nil)

		origin := newActivity("a", "Nowhere", "09:00:00", "10:00:00")
		dest := newActivity("b", "Elsewhere", "11:00:00", "12:00:00")

		items := e.segments.Build(ctx, usecase.NewPlaceIDCache(), &origin, &dest, "上海", &domain.LinkReport{})

		assert.Empty(t, items)
		e.routes.AssertNotCalled(t, "GetWalkingRoute", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("all modes unavailable emits nothing", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		a := newPlace("BA", "A", "上海市", 31.230, 121.470)
		b := newPlace("BB", "B", "上海市", 31.250, 121.500)
		e.expectPlace("A", a)
		e.expectPlace("B", b)
		e.expectRoutes(a, b, nil, nil, nil, &domain.RawRoute{})

		origin := newActivity("a", "A", "09:00:00", "10:00:00")
		dest := newActivity("b", "B", "11:00:00", "12:00:00")

		items := e.segments.Build(ctx, usecase.NewPlaceIDCache(), &origin, &dest, "上海", &domain.LinkReport{})
		assert.Empty(t, items)
	})

	t.Run("cross-city mismatch corrected once", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		wrong := newPlace("BA1", "A", "苏州市", 31.300, 120.600)
		right := newPlace("BA2", "A", "上海市", 31.230, 121.470)
		b := newPlace("BB", "B", "上海市", 31.250, 121.500)

		e.places.On("SearchPlaces", mock.Anything, "A", "上海", 1).Return([]domain.Place{{ID: "BA1"}}, nil).Once()
		e.places.On("SearchPlaces", mock.Anything, "A", "上海", 1).Return([]domain.Place{{ID: "BA2"}}, nil).Once()
		e.places.On("SearchPlaces", mock.Anything, "B", "上海", 1).Return([]domain.Place{{ID: "BB"}}, nil).Twice()
		e.places.On("GetPlaceDetail", mock.Anything, "BA1").Return(wrong, nil).Maybe()
		e.places.On("GetPlaceDetail", mock.Anything, "BA2").Return(right, nil).Maybe()
		e.places.On("GetPlaceDetail", mock.Anything, "BB").Return(b, nil).Maybe()
		e.expectRoutes(right, b, nil, walkRoute(1800, 2500), nil, nil)

		origin := newActivity("a", "A", "09:00:00", "10:00:00")
		dest := newActivity("b", "B", "11:00:00", "12:00:00")
		ids := usecase.NewPlaceIDCache()
		report := &domain.LinkReport{}

		items := e.segments.Build(ctx, ids, &origin, &dest, "上海", report)

		require.Len(t, items, 1)
		assert.Equal(t, 1, report.CityCorrections)
		e.places.AssertNumberOfCalls(t, "SearchPlaces", 4)
		corrected, _ := ids.Get("a")
		assert.Equal(t, "BA2", corrected)
	})

	t.Run("persistent mismatch does not trigger a third resolution", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		wrong := newPlace("BA1", "A", "苏州市", 31.300, 120.600)
		b := newPlace("BB", "B", "上海市", 31.250, 121.500)

		e.places.On("SearchPlaces", mock.Anything, "A", "上海", 1).Return([]domain.Place{{ID: "BA1"}}, nil)
		e.places.On("SearchPlaces", mock.Anything, "B", "上海", 1).Return([]domain.Place{{ID: "BB"}}, nil)
		e.places.On("GetPlaceDetail", mock.Anything, "BA1").Return(wrong, nil).Maybe()
		e.places.On("GetPlaceDetail", mock.Anything, "BB").Return(b, nil).Maybe()
		e.expectRoutes(wrong, b, nil, nil, nil, driveRoute(5400, 90000, 300))

		origin := newActivity("a", "A", "09:00:00", "10:00:00")
		dest := newActivity("b", "B", "11:00:00", "12:00:00")
		report := &domain.LinkReport{}

		items := e.segments.Build(ctx, usecase.NewPlaceIDCache(), &origin, &dest, "上海", report)

		require.Len(t, items, 1)
		assert.Equal(t, 1, report.CityCorrections)
		e.places.AssertNumberOfCalls(t, "SearchPlaces", 4)
	})

	t.Run("short pair uses straight-line walk when enabled", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{Enabled: true, MaxMeters: 500, SpeedMPS: 1.4})
		a := newPlace("BA", "A", "上海市", 31.2300, 121.4700)
		b := newPlace("BB", "B", "上海市", 31.2310, 121.4705)
		e.expectPlace("A", a)
		e.expectPlace("B", b)

		origin := newActivity("a", "A", "09:00:00", "10:00:00")
		dest := newActivity("b", "B", "11:00:00", "12:00:00")
		report := &domain.LinkReport{}

		items := e.segments.Build(ctx, usecase.NewPlaceIDCache(), &origin, &dest, "上海", report)

		require.Len(t, items, 1)
		assert.Equal(t, domain.ModeWalk, items[0].Mode)
		assert.Zero(t, *items[0].Cost)
		assert.Equal(t, 1, report.WalkFallbacks)
		assert.Greater(t, clockDiff(t, items[0].StartTime, items[0].EndTime), 0)
		e.routes.AssertNotCalled(t, "GetWalkingRoute", mock.Anything, mock.Anything, mock.Anything)
	})
}
