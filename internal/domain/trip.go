package domain

import (
	"encoding/json"
	"fmt"
)

// Типы элементов дня
const (
	ItemTypeActivity            = "activity"
	ItemTypeTransportation      = "transportation"
	ItemTypeLargeTransportation = "large_transportation"
)

// Coordinates - географические координаты точки
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location - место, заданное названием (и опционально адресом)
type Location struct {
	Name        string       `json:"name"`
	Address     string       `json:"address,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// POIDetails - произвольные данные о POI, приходящие с активностью.
// Нас интересует только ранее найденный идентификатор POIId.
type POIDetails map[string]interface{}

// POIID возвращает ранее сохранённый идентификатор POI, если он строковый
func (p POIDetails) POIID() string {
	if p == nil {
		return ""
	}
	id, _ := p["POIId"].(string)
	return id
}

// DayItem - элемент дневного плана: активность, перемещение или
// междугородний переезд. Неизвестные поля сохраняются в Extra и
// возвращаются при сериализации без изменений.
type DayItem struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Title       string        `json:"title,omitempty"`
	StartTime   string        `json:"start_time,omitempty"`
	EndTime     string        `json:"end_time,omitempty"`
	Description string        `json:"description,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	Cost        *float64      `json:"cost,omitempty"`
	Location    *Location     `json:"location,omitempty"`
	POIDetails  POIDetails    `json:"poi_details,omitempty"`
	Mode        TransportMode `json:"mode,omitempty"`
	Origin      *Location     `json:"origin,omitempty"`
	Destination *Location     `json:"destination,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownItemFields = []string{
	"id", "type", "title", "start_time", "end_time", "description", "notes",
	"cost", "location", "poi_details", "mode", "origin", "destination",
}

type dayItemAlias DayItem

func (d *DayItem) UnmarshalJSON(data []byte) error {
	var alias dayItemAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return fmt.Errorf("decode day item: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode day item fields: %w", err)
	}
	for _, key := range knownItemFields {
		delete(raw, key)
	}
	if len(raw) > 0 {
		alias.Extra = raw
	}

	*d = DayItem(alias)
	return nil
}

func (d DayItem) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(dayItemAlias(d))
	if err != nil || len(d.Extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range d.Extra {
		if _, exists := merged[key]; !exists {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// IsActivity - элемент является активностью с ID, названием и местом,
// то есть может быть связан транспортом с соседями. Остальные элементы
// проходят без изменений и без проверки формата.
func (d *DayItem) IsActivity() bool {
	return d.Type == ItemTypeActivity &&
		d.ID != "" &&
		d.Title != "" &&
		d.Location != nil && d.Location.Name != ""
}

// LocationName возвращает имя места или ID элемента, если места нет
func (d *DayItem) LocationName() string {
	if d.Location != nil && d.Location.Name != "" {
		return d.Location.Name
	}
	return d.ID
}

// Day - один день поездки
type Day struct {
	Date       string    `json:"date"`
	DayOfWeek  string    `json:"day_of_week,omitempty"`
	DayIndex   int       `json:"day_index"`
	TotalCost  *float64  `json:"total_cost,omitempty"`
	Activities []DayItem `json:"activities"`
}

// Trip - поездка целиком
type Trip struct {
	UserID      string `json:"user_id"`
	TripID      string `json:"trip_id" validate:"required"`
	TripName    string `json:"trip_name"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Days        []Day  `json:"days"`
}
