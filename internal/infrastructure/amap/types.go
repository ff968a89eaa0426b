package amap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/trip-linker/internal/domain"
	"github.com/trip-linker/internal/pkg/utils"
)

// flexString - текстовое поле Amap; пустые значения приходят как []
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = flexString(v)
	return nil
}

type apiStatus struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	InfoCode string `json:"infocode"`
}

func (s apiStatus) ok() bool {
	return s.Status == "1"
}

func (s apiStatus) statusInfo() apiStatus {
	return s
}

type statusCarrier interface {
	statusInfo() apiStatus
}

type poi struct {
	ID       string     `json:"id"`
	Name     flexString `json:"name"`
	Address  flexString `json:"address"`
	Location flexString `json:"location"`
	CityName flexString `json:"cityname"`
	CityCode flexString `json:"citycode"`
}

type poiResponse struct {
	apiStatus
	POIs []poi `json:"pois"`
}

type transitResponse struct {
	apiStatus
	Route struct {
		Transits []domain.TransitPlan `json:"transits"`
	} `json:"route"`
}

type pathResponse struct {
	apiStatus
	Route struct {
		Paths []domain.RoutePath `json:"paths"`
	} `json:"route"`
}

func (p poi) toPlace() domain.Place {
	place := domain.Place{
		ID:       p.ID,
		Name:     string(p.Name),
		Address:  string(p.Address),
		CityName: string(p.CityName),
		CityCode: string(p.CityCode),
	}
	if coords, err := parseLocation(string(p.Location)); err == nil {
		place.Location = coords
	}
	return place
}

// parseLocation разбирает строку "lng,lat"
func parseLocation(s string) (*domain.Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid location %q", s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	if !utils.ValidateCoordinates(lat, lng) {
		return nil, fmt.Errorf("location %q out of range", s)
	}
	return &domain.Coordinates{Lat: lat, Lng: lng}, nil
}

// formatLocation форматирует координаты в порядке Amap: "lng,lat"
func formatLocation(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lng, c.Lat)
}
