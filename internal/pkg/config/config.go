package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Booking BookingConfig
	Payment PaymentConfig
	Redis   RedisConfig
	Outbox  OutboxConfig
	Metrics MetricsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key,X-Request-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"America/Lima"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"-18000"` // -5*60*60
}

// JWTConfig only verifies tokens; issuing them belongs to the auth service.
type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// BookingConfig is the booking policy. Values may be overridden by the TOML
// file named in PolicyFile.
type BookingConfig struct {
	TimeZone              string        `envconfig:"BOOKING_TIMEZONE" default:"America/Lima"`
	CancellationCutoff    time.Duration `envconfig:"BOOKING_CANCELLATION_CUTOFF" default:"24h"`
	DefaultCommissionRate float64       `envconfig:"BOOKING_DEFAULT_COMMISSION_RATE" default:"10"`
	LargeGroupThreshold   int           `envconfig:"BOOKING_LARGE_GROUP_THRESHOLD" default:"10"`
	DocumentTypes         []string      `envconfig:"BOOKING_DOCUMENT_TYPES" default:"dni,passport,ce,other"`
	MaxRangeDays          int           `envconfig:"BOOKING_MAX_RANGE_DAYS" default:"90"`
	HorizonMonths         int           `envconfig:"BOOKING_HORIZON_MONTHS" default:"12"`
	MaxToursPerQuery      int           `envconfig:"BOOKING_MAX_TOURS_PER_QUERY" default:"20"`
	ReferencePrefix       string        `envconfig:"BOOKING_REFERENCE_PREFIX" default:"TB"`
	PolicyFile            string        `envconfig:"BOOKING_POLICY_FILE"`
}

type PaymentConfig struct {
	Currency      string   `envconfig:"PAYMENT_CURRENCY" default:"PEN"`
	DeclinedCards []string `envconfig:"PAYMENT_DECLINED_CARDS" default:"4000000000000002"`
}

// RedisConfig enables the Redis Streams publisher when Addr is set; otherwise
// events stay on an in-process channel.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	MaxAttempts  int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"10"`
	Enabled      bool          `envconfig:"OUTBOX_ENABLED" default:"true"`
}

type MetricsConfig struct {
	Enabled   bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Path      string `envconfig:"METRICS_PATH" default:"/metrics"`
	Namespace string `envconfig:"METRICS_NAMESPACE" default:"tour_booking"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c BookingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid booking time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// LoadConfig reads an optional .env file, then the environment, then the
// booking policy file if one is configured.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}

	if cfg.Booking.PolicyFile != "" {
		if err := ApplyPolicyFile(&cfg.Booking, cfg.Booking.PolicyFile); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Booking.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-e2e",
			Duration: "1h",
		},
		Booking: DefaultBookingConfig(),
		Payment: PaymentConfig{
			Currency:      "PEN",
			DeclinedCards: []string{"4000000000000002"},
		},
		Outbox: OutboxConfig{
			PollInterval: 50 * time.Millisecond,
			BatchSize:    50,
			MaxAttempts:  3,
			Enabled:      false,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "tour_booking_test",
		},
	}
}

func DefaultBookingConfig() BookingConfig {
	return BookingConfig{
		TimeZone:              "UTC",
		CancellationCutoff:    24 * time.Hour,
		DefaultCommissionRate: 10,
		LargeGroupThreshold:   10,
		DocumentTypes:         []string{"dni", "passport", "ce", "other"},
		MaxRangeDays:          90,
		HorizonMonths:         12,
		MaxToursPerQuery:      20,
		ReferencePrefix:       "TB",
	}
}
