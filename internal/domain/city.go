package domain

// cityCodes - телефонные коды городов, которые Amap принимает в city1/city2
var cityCodes = map[string]string{
	"上海": "021",
	"北京": "010",
	"广州": "020",
	"深圳": "0755",
	"杭州": "0571",
	"南京": "025",
	"苏州": "0512",
	"成都": "028",
	"武汉": "027",
	"西安": "029",
	"威海": "0631",
}

// CityCode возвращает код города по нормализованному названию
func CityCode(normalizedName string) (string, bool) {
	code, ok := cityCodes[normalizedName]
	return code, ok
}
