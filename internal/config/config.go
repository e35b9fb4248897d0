package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration. Every field is read from the
// environment; a .env file in the working directory is loaded first if present.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Recap    RecapConfig
	CORS     CORSConfig
	Log      LogConfig

	Timezone      string `env:"TIMEZONE"        env-default:"America/New_York"`
	EncryptionKey string `env:"ENCRYPTION_KEY"`
	Metrics       bool   `env:"METRICS_ENABLED" env-default:"true"`

	// SentimentLexicon optionally replaces the embedded word list.
	SentimentLexicon string `env:"SENTIMENT_LEXICON"`

	loc *time.Location
}

type DatabaseConfig struct {
	URL           string `env:"DATABASE_URL"   env-required:"true"`
	MongoDatabase string `env:"MONGO_DATABASE" env-default:"moodjournal"`
	MaxOpenConns  int    `env:"DATABASE_MAX_OPEN_CONNS" env-default:"10"`
}

type ServerConfig struct {
	Port            string        `env:"PORT"                    env-default:"5005"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type AuthConfig struct {
	JWTSecret    string `env:"AUTH_JWT_SECRET"`
	JWTPublicKey string `env:"AUTH_JWT_PUBLIC_KEY"`
	Issuer       string `env:"AUTH_JWT_ISSUER"`
	Audience     string `env:"AUTH_JWT_AUDIENCE"`
}

type RecapConfig struct {
	Provider     string        `env:"RECAP_PROVIDER"    env-default:"anthropic"`
	AnthropicKey string        `env:"ANTHROPIC_API_KEY"`
	Model        string        `env:"RECAP_MODEL"`
	MaxTokens    int64         `env:"RECAP_MAX_TOKENS"  env-default:"1024"`
	OllamaHost   string        `env:"OLLAMA_HOST"       env-default:"http://localhost:11434"`
	Timeout      time.Duration `env:"RECAP_TIMEOUT"     env-default:"60s"`
	Window       time.Duration `env:"RECAP_WINDOW"      env-default:"168h"`
	RateLimit    int           `env:"RECAP_RATE_LIMIT"  env-default:"10"`
}

type CORSConfig struct {
	Enabled        bool   `env:"CORS_ENABLED"         env-default:"true"`
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// StoreKind identifies the persistence backend selected by DATABASE_URL.
type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreSQLite   StoreKind = "sqlite"
	StoreMongo    StoreKind = "mongo"
)

// Load reads .env (if present) and the process environment, then validates.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field rules and resolves derived values.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Database.Kind(); err != nil {
		errs = append(errs, err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err))
	} else {
		c.loc = loc
	}

	if c.Auth.JWTSecret == "" && c.Auth.JWTPublicKey == "" {
		errs = append(errs, errors.New("one of AUTH_JWT_SECRET or AUTH_JWT_PUBLIC_KEY is required"))
	}

	switch c.Recap.Provider {
	case "anthropic":
		if c.Recap.AnthropicKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required when RECAP_PROVIDER=anthropic"))
		}
	case "ollama":
		if c.Recap.Model == "" {
			errs = append(errs, errors.New("RECAP_MODEL is required when RECAP_PROVIDER=ollama"))
		}
	case "none":
	default:
		errs = append(errs, fmt.Errorf("RECAP_PROVIDER %q: want anthropic, ollama or none", c.Recap.Provider))
	}

	if c.Recap.Window <= 0 {
		errs = append(errs, errors.New("RECAP_WINDOW must be positive"))
	}
	if c.Recap.Timeout <= 0 {
		errs = append(errs, errors.New("RECAP_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// Location is the zone that defines calendar days. It is resolved from
// Timezone by Validate and falls back to UTC before that.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Kind maps the DATABASE_URL scheme to a store backend.
func (d DatabaseConfig) Kind() (StoreKind, error) {
	if strings.HasPrefix(d.URL, "file:") {
		return StoreSQLite, nil
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return "", fmt.Errorf("DATABASE_URL: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		return StorePostgres, nil
	case "sqlite":
		return StoreSQLite, nil
	case "mongodb", "mongodb+srv":
		return StoreMongo, nil
	}
	return "", fmt.Errorf("DATABASE_URL: unsupported scheme %q", u.Scheme)
}

// SQLiteDSN strips the sqlite:// prefix so the remainder can be handed to the driver.
func (d DatabaseConfig) SQLiteDSN() string {
	return strings.TrimPrefix(d.URL, "sqlite://")
}

// Origins splits the comma-separated origin list.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
