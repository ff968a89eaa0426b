package domain

// Place - POI из поиска или из детального запроса провайдера
type Place struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Address  string       `json:"address,omitempty"`
	CityName string       `json:"city_name,omitempty"`
	CityCode string       `json:"city_code,omitempty"`
	Location *Coordinates `json:"location,omitempty"`
}

// HasLocation - у места есть координаты, пригодные для построения маршрута
func (p *Place) HasLocation() bool {
	return p != nil && p.Location != nil
}
