package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Amap   AmapConfig
	Linker LinkerConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Log    LogConfig
	Worker WorkerConfig
}

// AmapConfig - настройки клиента Amap REST API (поиск POI и маршруты)
type AmapConfig struct {
	BaseURL         string
	APIKey          string
	RequestTimeout  int // seconds
	MinCallInterval time.Duration
	DetailBatchSize int
	POIIDPrefix     string
}

// LinkerConfig - бизнес-правила связывания активностей
type LinkerConfig struct {
	DefaultCity           string
	CycleBaseFare         float64
	CycleUnitFare         float64
	LongWalkMinutes       int
	WalkFallbackEnabled   bool
	WalkFallbackMaxMeters float64
	WalkSpeedMPS          float64
	PrefetchDetails       bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	PlaceDetailTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxBatchSize  int
	MaxRetries    int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// без .env работаем только на переменных окружения
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Amap: AmapConfig{
			BaseURL:         viper.GetString("AMAP_BASE_URL"),
			APIKey:          viper.GetString("AMAP_API_KEY"),
			RequestTimeout:  viper.GetInt("AMAP_REQUEST_TIMEOUT"),
			MinCallInterval: time.Duration(viper.GetInt("AMAP_MIN_CALL_INTERVAL")) * time.Millisecond,
			DetailBatchSize: viper.GetInt("AMAP_DETAIL_BATCH_SIZE"),
			POIIDPrefix:     viper.GetString("AMAP_POI_ID_PREFIX"),
		},
		Linker: LinkerConfig{
			DefaultCity:           viper.GetString("LINKER_DEFAULT_CITY"),
			CycleBaseFare:         viper.GetFloat64("LINKER_CYCLE_BASE_FARE"),
			CycleUnitFare:         viper.GetFloat64("LINKER_CYCLE_UNIT_FARE"),
			LongWalkMinutes:       viper.GetInt("LINKER_LONG_WALK_MINUTES"),
			WalkFallbackEnabled:   viper.GetBool("LINKER_WALK_FALLBACK_ENABLED"),
			WalkFallbackMaxMeters: viper.GetFloat64("LINKER_WALK_FALLBACK_MAX_METERS"),
			WalkSpeedMPS:          viper.GetFloat64("LINKER_WALK_SPEED_MPS"),
			PrefetchDetails:       !viper.IsSet("LINKER_PREFETCH_DETAILS") || viper.GetBool("LINKER_PREFETCH_DETAILS"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			PlaceDetailTTL: time.Duration(viper.GetInt("PLACE_DETAIL_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			MaxBatchSize:  viper.GetInt("WORKER_MAX_BATCH_SIZE"),
			MaxRetries:    viper.GetInt("WORKER_MAX_RETRIES"),
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults заполняет незаданные значения
func (c *Config) applyDefaults() {
	if c.Amap.BaseURL == "" {
		c.Amap.BaseURL = "https://restapi.amap.com"
	}
	if c.Amap.RequestTimeout == 0 {
		c.Amap.RequestTimeout = 10
	}
	if c.Amap.MinCallInterval == 0 {
		c.Amap.MinCallInterval = 250 * time.Millisecond
	}
	if c.Amap.DetailBatchSize == 0 {
		c.Amap.DetailBatchSize = 10
	}
	if c.Amap.POIIDPrefix == "" {
		c.Amap.POIIDPrefix = "B"
	}
	if c.Linker.DefaultCity == "" {
		c.Linker.DefaultCity = "上海"
	}
	if c.Linker.CycleBaseFare == 0 {
		c.Linker.CycleBaseFare = 1.5
	}
	if c.Linker.CycleUnitFare == 0 {
		c.Linker.CycleUnitFare = 1.0
	}
	if c.Linker.LongWalkMinutes == 0 {
		c.Linker.LongWalkMinutes = 30
	}
	if c.Linker.WalkFallbackMaxMeters == 0 {
		c.Linker.WalkFallbackMaxMeters = 500
	}
	if c.Linker.WalkSpeedMPS == 0 {
		c.Linker.WalkSpeedMPS = 1.4
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Cache.PlaceDetailTTL == 0 {
		c.Cache.PlaceDetailTTL = 24 * time.Hour
	}
	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "trip-link-workers"
	}
	if c.Worker.MaxBatchSize == 0 {
		c.Worker.MaxBatchSize = 5
	}
	if c.Worker.MaxRetries == 0 {
		c.Worker.MaxRetries = 3
	}
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// RequestTimeoutDuration - таймаут одного запроса к Amap
func (c *AmapConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
