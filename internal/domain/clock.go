package domain

import (
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClock разбирает время суток "HH:MM:SS" или "HH:MM" в секунды от полуночи
func ParseClock(s string) (int, error) {
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

// FormatClock форматирует секунды от полуночи как "HH:MM:SS", с переходом через полночь
func FormatClock(seconds int) string {
	seconds %= secondsPerDay
	if seconds < 0 {
		seconds += secondsPerDay
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
