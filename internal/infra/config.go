package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// History drivers accepted in HISTORY_DRIVER.
const (
	HistoryNone     = "none"
	HistorySQLite   = "sqlite"
	HistoryPostgres = "postgres"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	HFToken            string
	HFModel            string
	HFBaseURL          string
	ImageProvider      string
	OpenAIAPIKey       string
	OpenAIImageModel   string
	OpenAIBaseURL      string
	ImageTimeout       time.Duration
	SampleImagesDir    string
	WarmupOnStart      bool
	PromptCatalogPath  string
	CORSAllowedOrigins []string
	HistoryDriver      string
	HistorySQLitePath  string
	DatabaseURL        string
	LogFile            string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8000"),
		HFToken:            strings.TrimSpace(os.Getenv("HF_TOKEN")),
		HFModel:            getEnv("HF_MODEL", "CompVis/stable-diffusion-v1-4"),
		HFBaseURL:          getEnv("HF_BASE_URL", "https://router.huggingface.co/hf-inference/models"),
		ImageProvider:      strings.ToLower(getEnv("IMAGE_PROVIDER", "auto")),
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIImageModel:   getEnv("OPENAI_IMAGE_MODEL", "dall-e-2"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ImageTimeout:       time.Second * time.Duration(getEnvInt("IMAGE_TIMEOUT_SECONDS", 0)),
		SampleImagesDir:    getEnv("SAMPLE_IMAGES_DIR", "sample_images"),
		WarmupOnStart:      getEnvBool("WARMUP_ON_START", true),
		PromptCatalogPath:  os.Getenv("PROMPT_CATALOG_PATH"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		HistoryDriver:      strings.ToLower(getEnv("HISTORY_DRIVER", HistoryNone)),
		HistorySQLitePath:  getEnv("HISTORY_SQLITE_PATH", "generations.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		LogFile:            os.Getenv("LOG_FILE"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 0)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	switch cfg.HistoryDriver {
	case HistoryNone, HistorySQLite:
	case HistoryPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when HISTORY_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("HISTORY_DRIVER must be one of none, sqlite, postgres (got %q)", cfg.HistoryDriver)
	}

	// Zero means unbounded: cold listings wait for the model, however slow.
	if cfg.ImageTimeout < 0 || cfg.HTTPWriteTimeout < 0 {
		return nil, fmt.Errorf("IMAGE_TIMEOUT_SECONDS and HTTP_WRITE_TIMEOUT_SECONDS must not be negative")
	}

	return cfg, nil
}

// Development reports whether the service runs in development mode, which
// switches the logger to console output at debug level.
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
