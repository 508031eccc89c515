package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// Префикс переменных окружения, которые переопределяют секреты из файла
const envPrefix = "CONSULTORIO_"

var (
	// ErrReadConfig возвращается, когда файл конфигурации не читается
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Redis          RedisConfig          `toml:"redis"`
	UserService    UserServiceConfig    `toml:"user_service"`
	Booking        BookingConfig        `toml:"booking"`
	Billing        BillingConfig        `toml:"billing"`
	Reconciliation ReconciliationConfig `toml:"reconciliation"`
	CORS           CORSConfig           `toml:"cors"`
}

// ServerConfig HTTP сервер; таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig подключение к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL строка подключения для golang-migrate
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// LogsConfig логирование
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig поток событий; пустой Addr отключает публикацию
type RedisConfig struct {
	Addr          string `toml:"addr"`
	Password      string `toml:"password"`
	DB            int    `toml:"db"`
	Stream        string `toml:"stream"`
	StreamMaxLen  int64  `toml:"stream_max_len"`
	NotifyTimeout int    `toml:"notify_timeout"` // секунды
}

// UserServiceConfig справочник пользователей
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// BookingConfig правила бронирования
type BookingConfig struct {
	Timezone             string `toml:"timezone"`
	PenaltyWindowHours   int    `toml:"penalty_window_hours"`
	RescheduleGraceDays  int    `toml:"reschedule_grace_days"`
	DefaultHorizonMonths int    `toml:"default_horizon_months"`
	OpenTime             string `toml:"open_time"`  // HH:MM
	CloseTime            string `toml:"close_time"` // HH:MM
}

// Location часовой пояс клиники
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Policy политика отмены
func (c BookingConfig) Policy() domain.CancellationPolicy {
	return domain.CancellationPolicy{
		PenaltyWindow:       time.Duration(c.PenaltyWindowHours) * time.Hour,
		RescheduleGraceDays: c.RescheduleGraceDays,
	}
}

// OpeningHours часы работы клиники
func (c BookingConfig) OpeningHours() (domain.OpeningHours, error) {
	return domain.ParseOpeningHours(c.OpenTime, c.CloseTime)
}

// BillingConfig скидки за объём
type BillingConfig struct {
	DiscountTiers []DiscountTierConfig `toml:"discount_tiers"`
}

// DiscountTierConfig порог скидки: percent применяется от min_bookings бронирований в периоде
type DiscountTierConfig struct {
	MinBookings int             `toml:"min_bookings"`
	Percent     decimal.Decimal `toml:"percent"`
}

// ReconciliationConfig сверка журнала доступа
type ReconciliationConfig struct {
	ToleranceMinutes int `toml:"tolerance_minutes"`
}

// Tolerance допуск раннего прохода
func (c ReconciliationConfig) Tolerance() time.Duration {
	return time.Duration(c.ToleranceMinutes) * time.Minute
}

// CORSConfig разрешённые источники SPA
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Load читает .env (если есть), файл конфигурации и переменные окружения
func Load(path string) (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("DB_HOST"); ok {
		c.Database.Host = v
	}
	if v, ok := lookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := lookupEnv("DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sDB_PORT=%q", ErrInvalidConfig, envPrefix, v)
		}
		c.Database.Port = port
	}
	if v, ok := lookupEnv("REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := lookupEnv("REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}
	if v, ok := lookupEnv("USER_SERVICE_URL"); ok {
		c.UserService.URL = v
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(envPrefix + key)
}

// Validate проверяет обязательные поля и подставляет значения по умолчанию
func (c *Config) Validate() error {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host and dbname are required", ErrInvalidConfig)
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "consultorio"
	}

	if c.Redis.NotifyTimeout == 0 {
		c.Redis.NotifyTimeout = 2
	}

	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 5
	}

	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "UTC"
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalidConfig, c.Booking.Timezone, err)
	}
	if c.Booking.PenaltyWindowHours == 0 {
		c.Booking.PenaltyWindowHours = domain.DefaultPenaltyWindowHours
	}
	if c.Booking.RescheduleGraceDays == 0 {
		c.Booking.RescheduleGraceDays = domain.DefaultRescheduleGraceDays
	}
	if c.Booking.DefaultHorizonMonths == 0 {
		c.Booking.DefaultHorizonMonths = domain.DefaultRecurrenceHorizonMonths
	}
	if c.Booking.PenaltyWindowHours < 0 || c.Booking.RescheduleGraceDays < 0 || c.Booking.DefaultHorizonMonths < 0 {
		return fmt.Errorf("%w: booking values must be positive", ErrInvalidConfig)
	}
	if c.Booking.OpenTime == "" {
		c.Booking.OpenTime = domain.DefaultOpenTime
	}
	if c.Booking.CloseTime == "" {
		c.Booking.CloseTime = domain.DefaultCloseTime
	}
	if _, err := c.Booking.OpeningHours(); err != nil {
		return fmt.Errorf("%w: booking.open_time/close_time: %v", ErrInvalidConfig, err)
	}

	for i, tier := range c.Billing.DiscountTiers {
		if tier.MinBookings <= 0 || tier.Percent.IsNegative() || tier.Percent.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: billing.discount_tiers[%d]: min_bookings must be positive and percent in [0, 100]", ErrInvalidConfig, i)
		}
	}

	if c.Reconciliation.ToleranceMinutes == 0 {
		c.Reconciliation.ToleranceMinutes = domain.DefaultAccessToleranceMinutes
	}

	return nil
}
