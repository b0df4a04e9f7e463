package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	GameName string

	DBDriver       string
	DBPath         string
	MigrationsPath string
	DatabaseURL    string

	RefreshInterval time.Duration
	MaxLosses       int
	BestOf          int
	Mode            bracket.TournamentType

	EnqueueRate  float64
	EnqueueBurst int

	HTTPAddr  string
	DOTOutput string
	LogLevel  slog.Level

	R2 R2Config
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// Enabled reports whether finished brackets should be uploaded.
func (c R2Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads the configuration from the environment. godotenv.Load should
// have been called before.
func Load() (*Config, error) {
	cfg := &Config{
		GameName:       getEnv("GAME_NAME", "Chess"),
		DBDriver:       getEnv("DB_DRIVER", DriverSQLite),
		DBPath:         getEnv("DB_PATH", "arena.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		HTTPAddr:       ":8080",
		DOTOutput:      os.Getenv("DOT_OUTPUT"),
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
		},
	}
	// An explicitly empty address disables the status server
	if addr, ok := os.LookupEnv("HTTP_ADDR"); ok {
		cfg.HTTPAddr = strings.TrimSpace(addr)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_NAME", "postgres"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASS", "postgres"),
		)
	}

	refresh, err := getInt("REFRESH_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.RefreshInterval = time.Duration(refresh) * time.Second

	if cfg.MaxLosses, err = getInt("N_ELIMINATION", 3); err != nil {
		return nil, err
	}
	if cfg.BestOf, err = getInt("BEST_OF", 7); err != nil {
		return nil, err
	}
	if cfg.EnqueueBurst, err = getInt("ENQUEUE_BURST", 1); err != nil {
		return nil, err
	}
	if cfg.EnqueueRate, err = getFloat("ENQUEUE_RATE", 0); err != nil {
		return nil, err
	}
	if cfg.Mode, err = bracket.ParseTournamentType(getEnv("BRACKET_MODE", string(bracket.OnlineElimination))); err != nil {
		return nil, fmt.Errorf("BRACKET_MODE: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.BestOf < 1:
		return fmt.Errorf("BEST_OF must be at least 1, got %d", c.BestOf)
	case c.MaxLosses < 1:
		return fmt.Errorf("N_ELIMINATION must be at least 1, got %d", c.MaxLosses)
	case c.RefreshInterval < time.Second:
		return fmt.Errorf("REFRESH_SECONDS must be at least 1, got %s", c.RefreshInterval)
	case c.EnqueueRate < 0:
		return fmt.Errorf("ENQUEUE_RATE must not be negative, got %g", c.EnqueueRate)
	case c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres:
		return fmt.Errorf("DB_DRIVER must be %s or %s, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
