package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NormalizeCityName приводит название города к сравнимому виду:
// NFKC, полуширинные символы, без пробелов по краям и без суффикса "市"
func NormalizeCityName(name string) string {
	s := width.Fold.String(norm.NFKC.String(name))
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, "市")
}

// SameCity - оба названия известны и совпадают после нормализации.
// Второй результат false, если хотя бы одно название пустое.
func SameCity(a, b string) (same bool, known bool) {
	na, nb := NormalizeCityName(a), NormalizeCityName(b)
	if na == "" || nb == "" {
		return false, false
	}
	return na == nb, true
}
