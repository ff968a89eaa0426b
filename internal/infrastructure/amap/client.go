package amap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trip-linker/internal/config"
	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/domain/repository"
	apperrors "github.com/trip-linker/internal/pkg/errors"
	"github.com/trip-linker/internal/pkg/ratelimit"
	"go.uber.org/zap"
)

const (
	placeTextPath   = "/v5/place/text"
	placeDetailPath = "/v3/place/detail"
	transitPath     = "/v5/direction/transit/integrated"
	walkingPath     = "/v5/direction/walking"
	bicyclingPath   = "/v5/direction/bicycling"
	drivingPath     = "/v5/direction/driving"
)

var (
	_ repository.PlaceRepository = (*Client)(nil)
	_ repository.RouteRepository = (*Client)(nil)
)

// Client - клиент Amap REST API: поиск POI, детали POI и четыре вида маршрутов.
// Все запросы проходят через общий throttle.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	apiKey          string
	detailBatchSize int
	throttle        ratelimit.Throttle
	logger          *zap.Logger
}

// NewAmapClient создает новый клиент для Amap API
func NewAmapClient(cfg *config.AmapConfig, throttle ratelimit.Throttle, logger *zap.Logger) *Client {
	batch := cfg.DetailBatchSize
	if batch <= 0 {
		batch = 10
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeoutDuration(),
		},
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		detailBatchSize: batch,
		throttle:        throttle,
		logger:          logger,
	}
}

// SearchPlaces ищет POI по ключевым словам внутри города
func (c *Client) SearchPlaces(ctx context.Context, keywords, city string, limit int) ([]domain.Place, error) {
	if strings.TrimSpace(keywords) == "" {
		return nil, fmt.Errorf("keywords cannot be empty")
	}
	if limit <= 0 {
		limit = 1
	}

	params := url.Values{}
	params.Set("keywords", keywords)
	if city != "" {
		params.Set("region", city)
		params.Set("city_limit", "true")
	}
	params.Set("page_size", strconv.Itoa(limit))
	params.Set("page_num", "1")

	var resp poiResponse
	if err := c.call(ctx, placeTextPath, params, &resp); err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(resp.POIs))
	for _, p := range resp.POIs {
		if p.ID == "" {
			continue
		}
		places = append(places, p.toPlace())
	}
	return places, nil
}

// GetPlaceDetail возвращает детали одного POI
func (c *Client) GetPlaceDetail(ctx context.Context, id string) (*domain.Place, error) {
	details, err := c.GetPlaceDetails(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	place, ok := details[id]
	if !ok {
		return nil, apperrors.ErrPlaceNotFound.WithDetails(map[string]interface{}{"id": id})
	}
	return place, nil
}

// GetPlaceDetails возвращает детали нескольких POI; ids длиннее лимита
// провайдера разбиваются на несколько запросов
func (c *Client) GetPlaceDetails(ctx context.Context, ids []string) (map[string]*domain.Place, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("ids cannot be empty")
	}

	result := make(map[string]*domain.Place, len(ids))
	for start := 0; start < len(ids); start += c.detailBatchSize {
		end := start + c.detailBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		params := url.Values{}
		params.Set("id", strings.Join(ids[start:end], "|"))

		var resp poiResponse
		if err := c.call(ctx, placeDetailPath, params, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.POIs {
			place := p.toPlace()
			result[p.ID] = &place
		}
	}

	return result, nil
}

// GetTransitRoute - маршрут на общественном транспорте
func (c *Client) GetTransitRoute(ctx context.Context, q repository.TransitQuery) (*domain.RawRoute, error) {
	params := url.Values{}
	params.Set("origin", formatLocation(q.Origin))
	params.Set("destination", formatLocation(q.Destination))
	if q.OriginPOI != "" {
		params.Set("originpoi", q.OriginPOI)
	}
	if q.DestinationPOI != "" {
		params.Set("destinationpoi", q.DestinationPOI)
	}
	params.Set("city1", q.CityCode)
	params.Set("city2", q.CityCode)
	params.Set("strategy", "0")
	params.Set("AlternativeRoute", "5")
	params.Set("max_trans", "3")
	params.Set("nightflag", "0")
	params.Set("show_fields", "cost,navi")

	var resp transitResponse
	if err := c.call(ctx, transitPath, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Route.Transits) == 0 {
		return nil, fmt.Errorf("no transit plans: %w", apperrors.ErrRouteUnavailable)
	}

	return &domain.RawRoute{Mode: domain.ModeTransit, Transits: resp.Route.Transits}, nil
}

// GetWalkingRoute - пешеходный маршрут
func (c *Client) GetWalkingRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.RawRoute, error) {
	params := pathParams(origin, destination)
	params.Set("isindoor", "0")
	return c.pathRoute(ctx, domain.ModeWalk, walkingPath, params)
}

// GetBicyclingRoute - велосипедный маршрут
func (c *Client) GetBicyclingRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.RawRoute, error) {
	return c.pathRoute(ctx, domain.ModeCycle, bicyclingPath, pathParams(origin, destination))
}

// GetDrivingRoute - автомобильный маршрут (стратегия 32 - рекомендованный Amap)
func (c *Client) GetDrivingRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.RawRoute, error) {
	params := pathParams(origin, destination)
	params.Set("strategy", "32")
	return c.pathRoute(ctx, domain.ModeDrive, drivingPath, params)
}

func pathParams(origin, destination domain.Coordinates) url.Values {
	params := url.Values{}
	params.Set("origin", formatLocation(origin))
	params.Set("destination", formatLocation(destination))
	params.Set("show_fields", "cost")
	return params
}

func (c *Client) pathRoute(ctx context.Context, mode domain.TransportMode, path string, params url.Values) (*domain.RawRoute, error) {
	var resp pathResponse
	if err := c.call(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Route.Paths) == 0 {
		return nil, fmt.Errorf("no %s paths: %w", mode, apperrors.ErrRouteUnavailable)
	}
	return &domain.RawRoute{Mode: mode, Paths: resp.Route.Paths}, nil
}

// call выполняет GET запрос к Amap и декодирует ответ в out
func (c *Client) call(ctx context.Context, path string, params url.Values, out statusCarrier) error {
	if err := c.throttle.Wait(ctx); err != nil {
		return fmt.Errorf("throttle wait: %w", err)
	}

	params.Set("key", c.apiKey)
	params.Set("output", "json")
	endpoint := c.baseURL + path + "?" + params.Encode()

	c.logger.Debug("Calling Amap API", zap.String("path", path))
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Amap request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to execute request: %v: %w", err, apperrors.ErrProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("Amap API returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("amap API error: status %d: %w", resp.StatusCode, apperrors.ErrProviderError)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("Failed to decode Amap response", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("decode %s: %v: %w", path, err, apperrors.ErrMalformedResponse)
	}

	status := out.statusInfo()
	if !status.ok() {
		c.logger.Warn("Amap API returned non-OK status",
			zap.String("path", path),
			zap.String("info", status.Info),
			zap.String("infocode", status.InfoCode))
		return fmt.Errorf("amap API status %q (%s): %w", status.Status, status.Info, apperrors.ErrProviderError)
	}

	c.logger.Debug("Amap API call successful",
		zap.String("path", path),
		zap.Duration("took", time.Since(started)))

	return nil
}
