package errors

import "net/http"

const (
	CodePlaceNotFound     = "PLACE_NOT_FOUND"
	CodeRouteUnavailable  = "ROUTE_UNAVAILABLE"
	CodeCityMismatch      = "CITY_MISMATCH"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
	CodeInvalidTrip       = "INVALID_TRIP"
	CodeProviderError     = "PROVIDER_ERROR"
	CodeCacheError        = "CACHE_ERROR"
)

var (
	// ErrPlaceNotFound - локацию не удалось сопоставить ни с одним POI
	ErrPlaceNotFound = New(
		CodePlaceNotFound,
		"Place could not be resolved",
		http.StatusNotFound,
	)

	// ErrRouteUnavailable - маршрут для конкретного режима недоступен
	ErrRouteUnavailable = New(
		CodeRouteUnavailable,
		"Route is unavailable for this mode",
		http.StatusBadGateway,
	)

	ErrCityMismatch = New(
		CodeCityMismatch,
		"Adjacent stops resolve to different cities",
		http.StatusUnprocessableEntity,
	)

	ErrMalformedResponse = New(
		CodeMalformedResponse,
		"Provider response is missing expected fields",
		http.StatusBadGateway,
	)

	ErrInvalidTrip = New(
		CodeInvalidTrip,
		"Invalid trip payload",
		http.StatusBadRequest,
	)

	ErrProviderError = New(
		CodeProviderError,
		"Provider request failed",
		http.StatusBadGateway,
	)

	ErrCacheError = New(
		CodeCacheError,
		"Cache operation failed",
		http.StatusInternalServerError,
	)
)
