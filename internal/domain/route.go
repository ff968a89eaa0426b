package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexNumber - числовое поле Amap. Провайдер отдаёт числа строками,
// иногда числами, а отсутствующее значение - пустым массивом или null.
// Всё, что не удалось разобрать, читается как 0.
type FlexNumber string

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), data[0] == '[', data[0] == '{':
		*n = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = FlexNumber(strings.TrimSpace(s))
	default:
		*n = FlexNumber(data)
	}
	return nil
}

// Float возвращает значение или 0. Отрицательные, NaN и бесконечные
// значения тоже читаются как 0: длительность, расстояние и стоимость
// не бывают отрицательными, а NaN не сериализуется в JSON.
func (n FlexNumber) Float() float64 {
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Negative - значение разобрано и меньше нуля
func (n FlexNumber) Negative() bool {
	v, err := strconv.ParseFloat(string(n), 64)
	return err == nil && v < 0
}

// Int возвращает значение, усечённое до целого, или 0
func (n FlexNumber) Int() int {
	return int(n.Float())
}

// RawRoute - ответ провайдера маршрутов для одного режима.
// Для transit заполнен Transits, для остальных - Paths.
type RawRoute struct {
	Mode     TransportMode
	Transits []TransitPlan
	Paths    []RoutePath
}

// TransitPlan - один вариант общественного транспорта
type TransitPlan struct {
	Distance FlexNumber       `json:"distance"`
	Cost     TransitCost      `json:"cost"`
	Segments []TransitSegment `json:"segments"`
}

type TransitCost struct {
	Duration   FlexNumber `json:"duration"`
	TransitFee FlexNumber `json:"transit_fee"`
	TaxiFee    FlexNumber `json:"taxi_fee"`
}

// TransitSegment - участок маршрута; заполнено одно или несколько плеч
type TransitSegment struct {
	Walking *WalkingLeg `json:"walking,omitempty"`
	Bus     *BusLeg     `json:"bus,omitempty"`
	Taxi    *TaxiLeg    `json:"taxi,omitempty"`
}

type WalkingLeg struct {
	Distance FlexNumber `json:"distance"`
	Cost     PathCost   `json:"cost"`
}

type BusLeg struct {
	Buslines []BusLine `json:"buslines"`
}

type BusLine struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	DepartureStop BusStop `json:"departure_stop"`
	ArrivalStop   BusStop `json:"arrival_stop"`
}

type BusStop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TaxiLeg struct {
	Distance FlexNumber `json:"distance"`
	Price    FlexNumber `json:"price"`
}

// RoutePath - путь пешком, на велосипеде или на машине
type RoutePath struct {
	Distance FlexNumber `json:"distance"`
	Duration FlexNumber `json:"duration"`
	Cost     PathCost   `json:"cost"`
}

type PathCost struct {
	Duration FlexNumber `json:"duration"`
	TaxiFee  FlexNumber `json:"taxi_fee"`
	Tolls    FlexNumber `json:"tolls"`
}
