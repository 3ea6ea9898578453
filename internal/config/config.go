package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	API      APIConfig      `yaml:"api"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Listing  ListingConfig  `yaml:"listing"`
	OAuth    OAuthConfig    `yaml:"oauth"`
}

type AppConfig struct {
	AppName     string `yaml:"name"`
	Environment string `yaml:"env"`
	HTTPPort    string `yaml:"http_port"`
	// RelayOrigins limits which browser origins may open the notification
	// relay. Empty allows any origin.
	RelayOrigins []string `yaml:"relay_origins"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type RealtimeConfig struct {
	URL          string        `yaml:"url"`
	ReconnectMin time.Duration `yaml:"reconnect_min"`
	ReconnectMax time.Duration `yaml:"reconnect_max"`
	MaxRetries   int           `yaml:"max_retries"`
}

type StorageConfig struct {
	// TokenStore is "file" or "redis".
	TokenStore string `yaml:"token_store"`
	TokenFile  string `yaml:"token_file"`
}

type RedisConfig struct {
	Host     string        `yaml:"host"`
	Port     string        `yaml:"port"`
	Password string        `yaml:"password"`
	TTL      time.Duration `yaml:"ttl"`
}

type ListingConfig struct {
	PageSize  int  `yaml:"page_size"`
	FetchSize int  `yaml:"fetch_size"`
	Fallback  bool `yaml:"fallback"`

	// FoldDiacritics makes title and location queries ignore accents.
	FoldDiacritics bool `yaml:"fold_diacritics"`
}

type OAuthConfig struct {
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	GoogleRedirectURL  string `yaml:"google_redirect_url"`
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidValue       = errors.New("invalid config value")
)

func Default() Config {
	return Config{
		App: AppConfig{
			AppName:     "jobnest",
			Environment: "development",
			HTTPPort:    "3001",
		},
		API: APIConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 15 * time.Second,
		},
		Realtime: RealtimeConfig{
			URL:          "ws://localhost:8080/ws/websocket",
			ReconnectMin: 500 * time.Millisecond,
			ReconnectMax: 30 * time.Second,
			MaxRetries:   10,
		},
		Storage: StorageConfig{
			TokenStore: "file",
			TokenFile:  defaultTokenFile(),
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
			TTL:  600 * time.Second,
		},
		Listing: ListingConfig{
			PageSize:  4,
			FetchSize: 100,
			Fallback:  false,
		},
	}
}

// Load reads .env, then the optional YAML file named by JOBNEST_CONFIG, then
// environment overrides.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("JOBNEST_CONFIG")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var bad []string
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			bad = append(bad, key)
			return
		}
		*dst = n
	}
	dur := func(key string, unit time.Duration, dst *time.Duration) {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			bad = append(bad, key)
			return
		}
		*dst = time.Duration(n) * unit
	}
	flag := func(key string, dst *bool) {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			bad = append(bad, key)
			return
		}
		*dst = b
	}

	str("APP_NAME", &cfg.App.AppName)
	str("APP_ENV", &cfg.App.Environment)
	str("HTTP_PORT", &cfg.App.HTTPPort)
	if v, ok := os.LookupEnv("RELAY_ALLOWED_ORIGINS"); ok {
		cfg.App.RelayOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.App.RelayOrigins = append(cfg.App.RelayOrigins, o)
			}
		}
	}

	str("API_BASE_URL", &cfg.API.BaseURL)
	dur("API_TIMEOUT_SECONDS", time.Second, &cfg.API.Timeout)

	str("WS_URL", &cfg.Realtime.URL)
	dur("WS_RECONNECT_MIN_MS", time.Millisecond, &cfg.Realtime.ReconnectMin)
	dur("WS_RECONNECT_MAX_MS", time.Millisecond, &cfg.Realtime.ReconnectMax)
	num("WS_MAX_RETRIES", &cfg.Realtime.MaxRetries)

	str("TOKEN_STORE", &cfg.Storage.TokenStore)
	str("TOKEN_FILE", &cfg.Storage.TokenFile)

	str("REDIS_HOST", &cfg.Redis.Host)
	str("REDIS_PORT", &cfg.Redis.Port)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	dur("REDIS_TTL", time.Second, &cfg.Redis.TTL)

	num("LISTING_PAGE_SIZE", &cfg.Listing.PageSize)
	num("LISTING_FETCH_SIZE", &cfg.Listing.FetchSize)
	flag("LISTING_FALLBACK", &cfg.Listing.Fallback)
	flag("LISTING_FOLD_DIACRITICS", &cfg.Listing.FoldDiacritics)

	str("GOOGLE_CLIENT_ID", &cfg.OAuth.GoogleClientID)
	str("GOOGLE_CLIENT_SECRET", &cfg.OAuth.GoogleClientSecret)
	str("GOOGLE_REDIRECT_URL", &cfg.OAuth.GoogleRedirectURL)

	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", errInvalidValue, strings.Join(bad, ", "))
	}
	return nil
}

func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.API.BaseURL) == "" {
		missing = append(missing, "API_BASE_URL")
	}
	if strings.TrimSpace(c.Realtime.URL) == "" {
		missing = append(missing, "WS_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: API_BASE_URL=%q", errInvalidValue, c.API.BaseURL)
	}
	if u, err := url.Parse(c.Realtime.URL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		return fmt.Errorf("%w: WS_URL=%q", errInvalidValue, c.Realtime.URL)
	}
	switch c.Storage.TokenStore {
	case "file", "redis":
	default:
		return fmt.Errorf("%w: TOKEN_STORE=%q", errInvalidValue, c.Storage.TokenStore)
	}
	if c.Listing.PageSize <= 0 {
		return fmt.Errorf("%w: LISTING_PAGE_SIZE=%d", errInvalidValue, c.Listing.PageSize)
	}
	if c.Realtime.ReconnectMin > c.Realtime.ReconnectMax {
		return fmt.Errorf("%w: WS_RECONNECT_MIN_MS exceeds WS_RECONNECT_MAX_MS", errInvalidValue)
	}
	return nil
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".jobnest", "session.json")
	}
	return filepath.Join(dir, "jobnest", "session.json")
}
