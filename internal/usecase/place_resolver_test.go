package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trip-linker/internal/domain"
	apperrors "github.com/trip-linker/internal/pkg/errors"
	"github.com/trip-linker/internal/repository/cache"
	"github.com/trip-linker/internal/usecase"
)

func TestPlaceResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("carried id validated by detail lookup", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		item := newActivity("a1", "外滩", "09:00:00", "10:00:00")
		item.POIDetails = domain.POIDetails{"POIId": "B00155L3DU"}

		e.places.On("GetPlaceDetail", mock.Anything, "B00155L3DU").
			Return(newPlace("B00155L3DU", "外滩", "上海市", 31.24, 121.49), nil).Once()

		ids := usecase.NewPlaceIDCache()
		id, err := e.resolver.Resolve(ctx, ids, &item, "上海", false)

		require.NoError(t, err)
		assert.Equal(t, "B00155L3DU", id)
		cached, ok := ids.Get("a1")
		assert.True(t, ok)
		assert.Equal(t, "B00155L3DU", cached)
		e.places.AssertNotCalled(t, "SearchPlaces", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		e.places.AssertExpectations(t)
	})

	t.Run("carried id with wrong format falls through to search", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		item := newActivity("a1", "外滩", "09:00:00", "10:00:00")
		item.POIDetails = domain.POIDetails{"POIId": "X123"}

		e.places.On("SearchPlaces", mock.Anything, "外滩", "上海", 1).
			Return([]domain.Place{{ID: "B001"}}, nil).Once()

		id, err := e.resolver.Resolve(ctx, usecase.NewPlaceIDCache(), &item, "上海", false)

		require.NoError(t, err)
		assert.Equal(t, "B001", id)
		e.places.AssertNotCalled(t, "GetPlaceDetail", mock.Anything, "X123")
	})

	t.Run("stale carried id falls through to search", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		item := newActivity("a1", "外滩", "09:00:00", "10:00:00")
		item.POIDetails = domain.POIDetails{"POIId": "B0STALE"}

		e.places.On("GetPlaceDetail", mock.Anything, "B0STALE").
			Return(nil, apperrors.ErrPlaceNotFound).Once()
		e.places.On("SearchPlaces", mock.Anything, "外滩", "上海", 1).
			Return([]domain.Place{{ID: "B002"}}, nil).Once()

		id, err := e.resolver.Resolve(ctx, usecase.NewPlaceIDCache(), &item, "上海", false)

		require.NoError(t, err)
		assert.Equal(t, "B002", id)
		e.places.AssertExpectations(t)
	})

	t.Run("forced refresh ignores carried id", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		item := newActivity("a1", "外滩", "09:00:00", "10:00:00")
		item.POIDetails = domain.POIDetails{"POIId": "B00155L3DU"}

		e.places.On("SearchPlaces", mock.Anything, "外滩", "上海", 1).
			Return([]domain.Place{{ID: "B003"}}, nil).Once()

		id, err := e.resolver.Resolve(ctx, usecase.NewPlaceIDCache(), &item, "上海", true)

		require.NoError(t, err)
		assert.Equal(t, "B003", id)
		e.places.AssertNotCalled(t, "GetPlaceDetail", mock.Anything, mock.Anything)
	})

	t.Run("address used when name finds nothing", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		item := newActivity("a1", "老饭店", "09:00:00", "10:00:00")
		item.Location.Address = "福佑路242号"

		e.places.On("SearchPlaces", mock.Anything, "老饭店", "上海", 1).Return([]domain.Place{}, nil).Once()
		e.places.On("SearchPlaces", mock.Anything, "福佑路242号", "上海", 1).
			Return([]domain.Place{{ID: "B004"}}, nil).Once()

		id, err := e.resolver.Resolve(ctx, usecase.NewPlaceIDCache(), &item, "上海", false)

		require.NoError(t, err)
		assert.Equal(t, "B004", id)
		e.places.AssertExpectations(t)
	})

	t.Run("not found after name and address", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		item := newActivity("a1", "不存在", "09:00:00", "10:00:00")
		item.Location.Address = "无"

		e.places.On("SearchPlaces", mock.Anything, "不存在", "上海", 1).Return(nil, errors.New("timeout")).Once()
		e.places.On("SearchPlaces", mock.Anything, "无", "上海", 1).Return([]domain.Place{}, nil).Once()

		ids := usecase.NewPlaceIDCache()
		_, err := e.resolver.Resolve(ctx, ids, &item, "上海", false)

		assert.ErrorIs(t, err, apperrors.ErrPlaceNotFound)
		assert.Zero(t, ids.Len())
	})

	t.Run("search result with location primes the detail cache", func(t *testing.T) {
		e := newTestEngine(t, usecase.WalkFallbackPolicy{})
		item := newActivity("a1", "豫园", "09:00:00", "10:00:00")
		found := *newPlace("B005", "豫园", "上海市", 31.22, 121.49)

		e.places.On("SearchPlaces", mock.Anything, "豫园", "上海", 1).Return([]domain.Place{found}, nil).Once()

		_, err := e.resolver.Resolve(ctx, usecase.NewPlaceIDCache(), &item, "上海", false)
		require.NoError(t, err)

		place, err := e.details.Detail(ctx, "B005")
		require.NoError(t, err)
		assert.Equal(t, "上海市", place.CityName)
		e.places.AssertNotCalled(t, "GetPlaceDetail", mock.Anything, "B005")
	})
}

func TestPlaceResolver_ValidPlaceID(t *testing.T) {
	e := newTestEngine(t, usecase.WalkFallbackPolicy{})

	assert.True(t, e.resolver.ValidPlaceID("B0FFG2MN8V"))
	assert.False(t, e.resolver.ValidPlaceID(""))
	assert.False(t, e.resolver.ValidPlaceID("A0FFG2MN8V"))
	assert.False(t, e.resolver.ValidPlaceID("B0 FFG"))
}

func TestPlaceDetailService(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("second lookup served from memory", func(t *testing.T) {
		places := &MockPlaceRepository{}
		svc := usecase.NewPlaceDetailService(places, cache.NewMemoryRepository(time.Hour, logger), nil, time.Hour, logger)

		places.On("GetPlaceDetail", mock.Anything, "B1").
			Return(newPlace("B1", "a", "上海市", 31, 121), nil).Once()

		for i := 0; i < 3; i++ {
			place, err := svc.Detail(ctx, "B1")
			require.NoError(t, err)
			assert.Equal(t, "B1", place.ID)
		}
		places.AssertExpectations(t)
	})

	t.Run("shared tier fills memory", func(t *testing.T) {
		places := &MockPlaceRepository{}
		memory := cache.NewMemoryRepository(time.Hour, logger)
		shared := cache.NewMemoryRepository(time.Hour, logger)
		require.NoError(t, shared.SetPlaceDetail(ctx, newPlace("B2", "b", "上海市", 31, 121), time.Hour))

		svc := usecase.NewPlaceDetailService(places, memory, shared, time.Hour, logger)

		place, err := svc.Detail(ctx, "B2")
		require.NoError(t, err)
		assert.Equal(t, "B2", place.ID)

		inMemory, err := memory.GetPlaceDetail(ctx, "B2")
		require.NoError(t, err)
		assert.NotNil(t, inMemory)
		places.AssertNotCalled(t, "GetPlaceDetail", mock.Anything, mock.Anything)
	})

	t.Run("provider error is wrapped", func(t *testing.T) {
		places := &MockPlaceRepository{}
		svc := usecase.NewPlaceDetailService(places, cache.NewMemoryRepository(time.Hour, logger), nil, time.Hour, logger)

		places.On("GetPlaceDetail", mock.Anything, "B3").Return(nil, apperrors.ErrPlaceNotFound)

		_, err := svc.Detail(ctx, "B3")
		assert.ErrorIs(t, err, apperrors.ErrPlaceNotFound)
	})

	t.Run("prefetch deduplicates and skips cached ids", func(t *testing.T) {
		places := &MockPlaceRepository{}
		memory := cache.NewMemoryRepository(time.Hour, logger)
		require.NoError(t, memory.SetPlaceDetail(ctx, newPlace("B1", "a", "上海市", 31, 121), time.Hour))
		svc := usecase.NewPlaceDetailService(places, memory, nil, time.Hour, logger)

		places.On("GetPlaceDetails", mock.Anything, []string{"B2", "B3"}).Return(map[string]*domain.Place{
			"B2": newPlace("B2", "b", "上海市", 31, 121),
			"B3": newPlace("B3", "c", "上海市", 31, 121),
		}, nil).Once()

		fetched := svc.Prefetch(ctx, []string{"B1", "B2", "B2", "", "B3"})

		assert.Equal(t, 2, fetched)
		assert.Zero(t, svc.Prefetch(ctx, []string{"B2", "B3"}))
		places.AssertExpectations(t)
	})
}
