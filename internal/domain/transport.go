package domain

import "fmt"

// TransportMode - способ перемещения между двумя активностями
type TransportMode string

const (
	ModeTransit TransportMode = "transit"
	ModeWalk    TransportMode = "walk"
	ModeCycle   TransportMode = "cycle"
	ModeDrive   TransportMode = "drive"
)

// ModeOrder - фиксированный порядок вариантов внутри одного сегмента
var ModeOrder = [4]TransportMode{ModeTransit, ModeWalk, ModeCycle, ModeDrive}

var modeIcons = map[TransportMode]string{
	ModeTransit: "🚇",
	ModeWalk:    "🚶",
	ModeCycle:   "🚴",
	ModeDrive:   "🚗",
}

// Icon возвращает префикс для поля notes
func (m TransportMode) Icon() string {
	if icon, ok := modeIcons[m]; ok {
		return icon
	}
	return "🚌"
}

// TransportOption - нормализованный вариант перемещения
type TransportOption struct {
	Mode            TransportMode `json:"mode"`
	DurationSeconds int           `json:"duration_seconds"`
	DistanceMeters  int           `json:"distance_meters"`
	Cost            float64       `json:"cost"`
	Description     string        `json:"description"`
	Notes           string        `json:"notes"`
}

// TransportationID строит детерминированный ID сегмента; rank начинается с 1
func TransportationID(originID, destID string, rank int) string {
	return fmt.Sprintf("transportation_%s_%s_%d", originID, destID, rank)
}
