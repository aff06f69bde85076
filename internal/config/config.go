package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL = "https://api.deepseek.com"
	DefaultPort    = 8000
	DefaultHost    = "0.0.0.0"
)

type Config struct {
	// Server
	Host string
	Port int
	Env  string

	// Logging
	Debug bool

	// DeepSeek
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
}

// Load reads the process environment, after merging a .env file if one is
// present. A missing API key is not an error here: the chat endpoint reports
// it per request so the rest of the surface stays usable.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Host:            getEnvOrDefault("HOST", DefaultHost),
		Port:            getEnvAsIntOrDefault("PORT", DefaultPort),
		Env:             getEnvOrDefault("ENV", "development"),
		Debug:           getEnvAsBoolOrDefault("LOG_DEBUG", false),
		DeepSeekAPIKey:  strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY")),
		DeepSeekBaseURL: strings.TrimRight(getEnvOrDefault("DEEPSEEK_BASE_URL", DefaultBaseURL), "/"),
	}

	return cfg
}

// Validate checks the values that would otherwise fail late, at listen time
// or on the first upstream call.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	u, err := url.Parse(c.DeepSeekBaseURL)
	if err != nil {
		return fmt.Errorf("invalid DEEPSEEK_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid DEEPSEEK_BASE_URL %q: scheme must be http or https", c.DeepSeekBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid DEEPSEEK_BASE_URL %q: missing host", c.DeepSeekBaseURL)
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HasAPIKey reports whether the upstream credential is configured.
func (c *Config) HasAPIKey() bool {
	return c.DeepSeekAPIKey != ""
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
