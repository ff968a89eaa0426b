package repository

import (
	"context"

	"github.com/trip-linker/internal/domain"
)

// PlaceRepository определяет методы провайдера поиска мест
type PlaceRepository interface {
	// SearchPlaces ищет POI по ключевым словам в пределах города
	SearchPlaces(ctx context.Context, keywords, city string, limit int) ([]domain.Place, error)

	// GetPlaceDetail возвращает детали POI (координаты, город, адрес)
	GetPlaceDetail(ctx context.Context, id string) (*domain.Place, error)

	// GetPlaceDetails возвращает детали нескольких POI одним запросом;
	// неизвестные ID просто отсутствуют в результате
	GetPlaceDetails(ctx context.Context, ids []string) (map[string]*domain.Place, error)
}
