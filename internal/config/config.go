package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

var insecureSecretPlaceholders = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

// Calendar cache modes. The in-process memory cache is only correct for a
// single instance; replicas share Redis or run uncached.
const (
	CalendarCacheNone   = "none"
	CalendarCacheMemory = "memory"
	CalendarCacheRedis  = "redis"
)

type Config struct {
	Port             string
	TimeZone         string
	Location         *time.Location
	SecretKey        string
	TokenIssuer      string
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	RedisURL         string
	CalendarCache    string
	CalendarCacheTTL time.Duration
	LogLevel         string
	LogFile          string
	MetricsEnabled   bool
	CORSOrigins      string
}

type environment struct {
	Port             string        `env:"PORT,default=8080"`
	TimeZone         string        `env:"TZ,default=UTC"`
	SecretKey        string        `env:"SECRET_KEY"`
	TokenIssuer      string        `env:"TOKEN_ISSUER,default=habitdiary"`
	DBDriver         string        `env:"DB_DRIVER,default=sqlite"`
	DBPath           string        `env:"DB_PATH,default=data/habitdiary.db"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	RedisURL         string        `env:"REDIS_URL"`
	CalendarCache    string        `env:"CALENDAR_CACHE"`
	CalendarCacheTTL time.Duration `env:"CALENDAR_CACHE_TTL,default=10m"`
	LogLevel         string        `env:"LOG_LEVEL,default=info"`
	LogFile          string        `env:"LOG_FILE"`
	MetricsEnabled   bool          `env:"METRICS_ENABLED,default=true"`
	CORSOrigins      string        `env:"CORS_ORIGINS"`
}

// Load reads an optional .env file, decodes the environment and validates
// the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	var env environment
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	cfg := Config{
		Port:             env.Port,
		TimeZone:         env.TimeZone,
		SecretKey:        env.SecretKey,
		TokenIssuer:      env.TokenIssuer,
		DBDriver:         env.DBDriver,
		DBPath:           env.DBPath,
		DatabaseURL:      env.DatabaseURL,
		RedisURL:         env.RedisURL,
		CalendarCache:    env.CalendarCache,
		CalendarCacheTTL: env.CalendarCacheTTL,
		LogLevel:         env.LogLevel,
		LogFile:          env.LogFile,
		MetricsEnabled:   env.MetricsEnabled,
		CORSOrigins:      env.CORSOrigins,
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) normalize() error {
	port, err := ResolvePort(cfg.Port)
	if err != nil {
		return err
	}
	cfg.Port = port

	secret, err := ResolveSecretKey(cfg.SecretKey)
	if err != nil {
		return err
	}
	cfg.SecretKey = secret

	cfg.TimeZone = strings.TrimSpace(cfg.TimeZone)
	if cfg.TimeZone == "" {
		cfg.TimeZone = "UTC"
	}
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid TZ %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = location

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite"
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = "data/habitdiary.db"
	}
	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	cfg.CalendarCache = strings.ToLower(strings.TrimSpace(cfg.CalendarCache))
	if cfg.CalendarCache == "" {
		cfg.CalendarCache = CalendarCacheNone
		if strings.TrimSpace(cfg.RedisURL) != "" {
			cfg.CalendarCache = CalendarCacheRedis
		}
	}
	switch cfg.CalendarCache {
	case CalendarCacheNone, CalendarCacheMemory:
	case CalendarCacheRedis:
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return errors.New("REDIS_URL is required when CALENDAR_CACHE is redis")
		}
	default:
		return fmt.Errorf("unsupported CALENDAR_CACHE %q", cfg.CalendarCache)
	}

	if cfg.CalendarCacheTTL < 0 {
		return fmt.Errorf("CALENDAR_CACHE_TTL must not be negative")
	}
	if cfg.CalendarCacheTTL == 0 {
		cfg.CalendarCacheTTL = 10 * time.Minute
	}
	return nil
}

func (cfg Config) AllowedOrigins() []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(cfg.CORSOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func ResolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretPlaceholders[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < 32 {
		return "", errors.New("SECRET_KEY must be at least 32 characters")
	}
	return secret, nil
}

func ResolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return "8080", nil
	}
	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(value), nil
}
