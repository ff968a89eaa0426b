package domain

// LinkReport - счётчики одного запуска связывания поездки
type LinkReport struct {
	Days              int `json:"days"`
	PairsConsidered   int `json:"pairs_considered"`
	PairsLinked       int `json:"pairs_linked"`
	PairsWithoutRoute int `json:"pairs_without_route"`
	BarrierSkips      int `json:"barrier_skips"`
	SegmentsEmitted   int `json:"segments_emitted"`
	CityCorrections   int `json:"city_corrections"`
	WalkFallbacks     int `json:"walk_fallbacks"`
}
