package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const envPrefix = "SCHEDULE_"

type Config struct {
	HttpAddr     string `env:"HTTP_ADDR" envDefault:":6060" validate:"required"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./database.db" validate:"required"`

	// UserZone is the IANA zone appointment times are entered and shown in.
	// Empty means the host's local zone.
	UserZone string `env:"USER_ZONE"`

	OfficeZoneOffsetHours int    `env:"OFFICE_ZONE_OFFSET_HOURS" envDefault:"-5" validate:"min=-14,max=14"`
	OfficeOpen            string `env:"OFFICE_OPEN" envDefault:"08:00" validate:"required,clocktime"`
	OfficeClose           string `env:"OFFICE_CLOSE" envDefault:"22:00" validate:"required,clocktime"`

	// HistoricalOffsets resolves the user zone offset for the appointment's own
	// date instead of the offset in effect right now.
	HistoricalOffsets bool `env:"HISTORICAL_OFFSETS"`

	RetryAttempts int           `env:"RETRY_ATTEMPTS" envDefault:"3" validate:"min=1,max=10"`
	RetryBackoff  time.Duration `env:"RETRY_BACKOFF" envDefault:"200ms"`

	JWTSecret string        `env:"JWT_SECRET" validate:"required,min=16"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"12h"`

	LoginActivityPath  string  `env:"LOGIN_ACTIVITY_PATH" envDefault:"./login_activity.txt"`
	LoginRatePerSecond float64 `env:"LOGIN_RATE_PER_SECOND" envDefault:"5" validate:"gt=0"`

	RedisAddr string `env:"REDIS_ADDR"`
	CacheSize int    `env:"CACHE_SIZE" envDefault:"256" validate:"min=1"`

	SeedDemoData bool `env:"SEED_DEMO_DATA"`
}

// Load reads an optional .env file and then the process environment.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		err := godotenv.Load(dotenvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", dotenvPath, err)
		}
	}

	conf, err := env.ParseAsWithOptions[Config](env.Options{Prefix: envPrefix, UseFieldNameByDefault: true})
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	_ = validate.RegisterValidation("clocktime", isClockTime)
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.UserZone != "" {
		if _, err := time.LoadLocation(c.UserZone); err != nil {
			return fmt.Errorf("invalid configuration: user zone %q: %w", c.UserZone, err)
		}
	}
	open, _ := time.Parse("15:04", c.OfficeOpen)
	closing, _ := time.Parse("15:04", c.OfficeClose)
	if !open.Before(closing) {
		return fmt.Errorf("invalid configuration: office opens at %s but closes at %s", c.OfficeOpen, c.OfficeClose)
	}
	return nil
}

// Location returns the configured user zone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.UserZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.UserZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func isClockTime(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}
