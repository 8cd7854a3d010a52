package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Preview  PreviewConfig
}

type AppConfig struct {
	HTTPPort string
}

type BackendConfig struct {
	BaseURL string
}

// DatabaseConfig points at the save-history database. An empty URL
// disables history.
type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type PreviewConfig struct {
	CacheTTL   time.Duration
	ChromePath string
}

const (
	defaultBackendURL = "http://localhost:8000/api/master-resume"
	defaultCacheTTL   = 600 * time.Second
)

var errInvalidEnv = errors.New("invalid environment variables")

// LoadDotEnv loads .env from the working directory when present.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func Load() (Config, error) {
	cfg := Config{}

	var invalid []string
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	positive := func(key string, def int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{HTTPPort: strconv.Itoa(positive("HTTP_PORT", 3000))}

	cfg.Backend = BackendConfig{BaseURL: strings.TrimRight(opt("BACKEND_API_URL", defaultBackendURL), "/")}

	cfg.Database = DatabaseConfig{URL: opt("SYNC_DATABASE_URL", "")}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     strconv.Itoa(positive("REDIS_PORT", 6379)),
		Password: opt("REDIS_PASSWORD", ""),
	}

	cfg.Preview = PreviewConfig{
		CacheTTL:   time.Duration(positive("PREVIEW_CACHE_TTL", int(defaultCacheTTL/time.Second))) * time.Second,
		ChromePath: opt("CHROME_PATH", ""),
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
