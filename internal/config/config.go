package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	// база часовых поясов в бинарнике: образы без zoneinfo
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	"github.com/m04kA/atelier-scheduling/pkg/slotlock"
	"github.com/m04kA/atelier-scheduling/pkg/types"
)

// ErrInvalidConfig некорректное значение в конфигурации
var ErrInvalidConfig = errors.New("invalid config")

// Config конфигурация сервиса.
// Значения читаются из TOML-файла, затем перекрываются переменными окружения
type Config struct {
	Server        ServerConfig        `toml:"server" envPrefix:"SERVER_"`
	Database      DatabaseConfig      `toml:"database" envPrefix:"DATABASE_"`
	Logs          LogsConfig          `toml:"logs" envPrefix:"LOGS_"`
	Metrics       MetricsConfig       `toml:"metrics" envPrefix:"METRICS_"`
	Redis         RedisConfig         `toml:"redis" envPrefix:"REDIS_"`
	RabbitMQ      RabbitMQConfig      `toml:"rabbitmq" envPrefix:"RABBITMQ_"`
	Scheduling    SchedulingConfig    `toml:"scheduling" envPrefix:"SCHEDULING_"`
	BusinessHours []BusinessDayConfig `toml:"business_hours"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" env:"READ_TIMEOUT"` // секунды
	WriteTimeout    int `toml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" env:"HOST"`
	Port            int    `toml:"port" env:"PORT"`
	User            string `toml:"user" env:"USER"`
	Password        string `toml:"password" env:"PASSWORD"`
	DBName          string `toml:"dbname" env:"NAME"`
	SSLMode         string `toml:"sslmode" env:"SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"` // секунды
	// ReplicaDSN реплика для чтения сетки слотов (опционально)
	ReplicaDSN string `toml:"replica_dsn" env:"REPLICA_DSN"`
}

// DSN строка подключения к основной БД
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level" env:"LEVEL"`
	File  string `toml:"file" env:"FILE"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"ENABLED"`
	Path        string `toml:"path" env:"PATH"`
	ServiceName string `toml:"service_name" env:"SERVICE_NAME"`
}

type RedisConfig struct {
	Enabled   bool   `toml:"enabled" env:"ENABLED"`
	Addr      string `toml:"addr" env:"ADDR"`
	Password  string `toml:"password" env:"PASSWORD"`
	DB        int    `toml:"db" env:"DB"`
	KeyPrefix string `toml:"key_prefix" env:"KEY_PREFIX"`
}

type RabbitMQConfig struct {
	Enabled        bool   `toml:"enabled" env:"ENABLED"`
	URL            string `toml:"url" env:"URL"`
	Queue          string `toml:"queue" env:"QUEUE"`
	PublishTimeout int    `toml:"publish_timeout" env:"PUBLISH_TIMEOUT"` // секунды
}

type SchedulingConfig struct {
	Timezone            string  `toml:"timezone" env:"TIMEZONE"`
	SlotDurationMinutes int     `toml:"slot_duration_minutes" env:"SLOT_DURATION_MINUTES"`
	SlotBufferMinutes   int     `toml:"slot_buffer_minutes" env:"SLOT_BUFFER_MINUTES"`
	LockWaitTimeoutMs   int     `toml:"lock_wait_timeout_ms" env:"LOCK_WAIT_TIMEOUT_MS"`
	LockTTLSeconds      int     `toml:"lock_ttl_seconds" env:"LOCK_TTL_SECONDS"`
	BookingRateLimit    float64 `toml:"booking_rate_limit" env:"BOOKING_RATE_LIMIT"` // запросов в секунду с одного IP, 0 - без ограничения
	BookingRateBurst    int     `toml:"booking_rate_burst" env:"BOOKING_RATE_BURST"`
}

// BusinessDayConfig строка таблицы рабочих часов
type BusinessDayConfig struct {
	Day    string `toml:"day"` // monday..sunday
	Open   string `toml:"open"`
	Close  string `toml:"close"`
	Closed bool   `toml:"closed"`
}

// Default значения по умолчанию, поверх которых читается файл
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "atelier_scheduling",
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "atelier:lock",
		},
		RabbitMQ: RabbitMQConfig{
			Queue:          "appointments.events",
			PublishTimeout: 5,
		},
		Scheduling: SchedulingConfig{
			Timezone:            domain.DefaultTimezone,
			SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
			SlotBufferMinutes:   domain.DefaultSlotBufferMinutes,
			LockWaitTimeoutMs:   3000,
			LockTTLSeconds:      10,
			BookingRateBurst:    10,
		},
	}
}

// Load читает конфигурацию из файла и переменных окружения и проверяет ее
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// Первой ошибки достаточно для понятного сообщения
			return nil, fmt.Errorf("failed to apply environment: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.RabbitMQ.Enabled && (c.RabbitMQ.URL == "" || c.RabbitMQ.Queue == "") {
		return fmt.Errorf("%w: rabbitmq.url and rabbitmq.queue are required when rabbitmq is enabled", ErrInvalidConfig)
	}
	if c.Scheduling.BookingRateLimit < 0 {
		return fmt.Errorf("%w: scheduling.booking_rate_limit must not be negative", ErrInvalidConfig)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if err := c.SlotPolicy().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Hours(); err != nil {
		return err
	}

	return nil
}

// Location часовой пояс бутика
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Scheduling.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: scheduling.timezone %q: %v", ErrInvalidConfig, c.Scheduling.Timezone, err)
	}
	return loc, nil
}

// SlotPolicy параметры сетки слотов
func (c *Config) SlotPolicy() domain.SlotPolicy {
	return domain.SlotPolicy{
		DurationMinutes: c.Scheduling.SlotDurationMinutes,
		BufferMinutes:   c.Scheduling.SlotBufferMinutes,
	}
}

// LockOptions параметры блокировки рабочего дня при записи
func (c *Config) LockOptions() slotlock.Options {
	return slotlock.Options{
		TTL:         time.Duration(c.Scheduling.LockTTLSeconds) * time.Second,
		WaitTimeout: time.Duration(c.Scheduling.LockWaitTimeoutMs) * time.Millisecond,
	}
}

// Hours собирает таблицу рабочих часов из секций [[business_hours]]
func (c *Config) Hours() (domain.BusinessHours, error) {
	days := make([]domain.BusinessDay, 0, len(c.BusinessHours))

	for _, row := range c.BusinessHours {
		weekday, err := parseWeekday(row.Day)
		if err != nil {
			return domain.BusinessHours{}, err
		}

		day := domain.BusinessDay{DayOfWeek: weekday, Closed: row.Closed}
		if !row.Closed {
			if day.Open, err = types.NewTimeStringFromString(row.Open); err != nil {
				return domain.BusinessHours{}, fmt.Errorf("%w: business_hours %s open: %v", ErrInvalidConfig, row.Day, err)
			}
			if day.Close, err = types.NewTimeStringFromString(row.Close); err != nil {
				return domain.BusinessHours{}, fmt.Errorf("%w: business_hours %s close: %v", ErrInvalidConfig, row.Day, err)
			}
		}

		days = append(days, day)
	}

	hours, err := domain.NewBusinessHours(days)
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return hours, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.ToLower(wd.String()) == name {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown day of week %q", ErrInvalidConfig, s)
}
