package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Поддерживаемые бэкенды хранилища.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// DBConfig — параметры SQL-хранилища (sqlite/postgres через GORM).
type DBConfig struct {
	SQLitePath      string `mapstructure:"SQLITE_PATH"`
	Host            string `mapstructure:"DB_HOST"`
	Port            int    `mapstructure:"DB_PORT"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	TimeZone        string `mapstructure:"DB_TIMEZONE"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifeTime int    `mapstructure:"DB_CONN_MAX_LIFETIME_MIN"` // минут
}

// RedisConfig — параметры Redis-хранилища.
type RedisConfig struct {
	Addr     string `mapstructure:"REDIS_ADDR"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

// MongoConfig — параметры MongoDB-хранилища.
type MongoConfig struct {
	URI      string `mapstructure:"MONGO_URI"`
	Database string `mapstructure:"MONGO_DATABASE"`
}

// Config — вся конфигурация приложения.
type Config struct {
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	// Часовой пояс, в котором считается "сегодня" при генерации слотов.
	AppTimeZone string `mapstructure:"APP_TIMEZONE"`

	DB    DBConfig    `mapstructure:",squash"`
	Redis RedisConfig `mapstructure:",squash"`
	Mongo MongoConfig `mapstructure:",squash"`
}

var defaults = map[string]any{
	"ENV":          "development",
	"LOG_LEVEL":    "info",
	"STORE_DRIVER": DriverSQLite,
	"APP_TIMEZONE": "UTC",

	"SQLITE_PATH":              "reserveasy.db",
	"DB_HOST":                  "postgres",
	"DB_PORT":                  5432,
	"DB_USER":                  "booking",
	"DB_PASSWORD":              "booking",
	"DB_NAME":                  "booking_db",
	"DB_SSLMODE":               "disable",
	"DB_TIMEZONE":              "UTC",
	"DB_MAX_OPEN_CONNS":        10,
	"DB_MAX_IDLE_CONNS":        5,
	"DB_CONN_MAX_LIFETIME_MIN": 30,

	"REDIS_ADDR":     "localhost:6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,

	"MONGO_URI":      "mongodb://localhost:27017",
	"MONGO_DATABASE": "reserveasy",
}

// Load читает конфиг из переменных окружения и (опционально) файла
// reserveasy.yaml в текущем каталоге или ./config. Если configFile не пуст,
// используется именно он, и его отсутствие — ошибка.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("reserveasy")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate — минимальная валидация.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("invalid config: SQLITE_PATH must not be empty")
		}
	case DriverPostgres:
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			return fmt.Errorf("invalid DB config: host/user/name must not be empty")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("invalid config: REDIS_ADDR must not be empty")
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("invalid config: MONGO_URI/MONGO_DATABASE must not be empty")
		}
	default:
		return fmt.Errorf("invalid config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// IsProduction сообщает, запущено ли приложение в production-окружении.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location — часовой пояс APP_TIMEZONE.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.AppTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid config: APP_TIMEZONE %q: %w", c.AppTimeZone, err)
	}
	return loc, nil
}
