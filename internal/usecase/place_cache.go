package usecase

import "sync"

// PlaceIDCache - соответствие Activity.ID -> PlaceID в рамках одного
// запуска TripLinker. Не сохраняется между запусками.
type PlaceIDCache struct {
	mu  sync.RWMutex
	ids map[string]string
}

func NewPlaceIDCache() *PlaceIDCache {
	return &PlaceIDCache{ids: make(map[string]string)}
}

func (c *PlaceIDCache) Get(activityID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[activityID]
	return id, ok
}

func (c *PlaceIDCache) Put(activityID, placeID string) {
	if activityID == "" || placeID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[activityID] = placeID
}

// Evict удаляет записи; вызывается при обнаружении межгородского несоответствия
func (c *PlaceIDCache) Evict(activityIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range activityIDs {
		delete(c.ids, id)
	}
}

func (c *PlaceIDCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}
