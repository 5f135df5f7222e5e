package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Env              string        `envconfig:"APP_ENV" default:"development"`
	Addr             string        `envconfig:"HTTP_ADDR" default:":8080"`
	MongoURI         string        `envconfig:"MONGO_URI" default:"mongodb://mongo:27017"`
	MongoDatabase    string        `envconfig:"MONGO_DB" default:"survey-master"`
	SurveyCollection string        `envconfig:"SURVEY_COLLECTION" default:"surveys"`
	Timeout          time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
	RedisAddr        string        `envconfig:"REDIS_ADDR"`
	RedisPassword    string        `envconfig:"REDIS_PASSWORD"`
	RedisDB          int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL       time.Duration `envconfig:"BUILDER_SESSION_TTL" default:"24h"`
	SubmitEndpoint   string        `envconfig:"SURVEY_SUBMIT_URL"`
	SubmitToken      string        `envconfig:"SURVEY_SUBMIT_TOKEN"`
	SubmitTimeout    time.Duration `envconfig:"SURVEY_SUBMIT_TIMEOUT" default:"5s"`
	FormAction       string        `envconfig:"BUILDER_FORM_ACTION" default:"/surveys"`
	AllowedOrigins   []string      `envconfig:"API_ALLOWED_ORIGINS" default:"*"`
	JWTSecret        string        `envconfig:"AUTH_JWT_SECRET" required:"true"`
	JWTIssuer        string        `envconfig:"AUTH_JWT_ISSUER" default:"survey-master-auth"`
	JWTPrevSecret    string        `envconfig:"AUTH_JWT_PREVIOUS_SECRET"`
	JWTAudience      string        `envconfig:"AUTH_JWT_AUDIENCE"`

	// JWTConfigs is derived from the secrets above; the previous secret keeps
	// tokens issued before a rotation valid.
	JWTConfigs []JWTConfig `ignored:"true"`
}

// Load reads environment variables and returns a fully populated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.AllowedOrigins = trimList(cfg.AllowedOrigins, []string{"*"})
	cfg.JWTConfigs = append(cfg.JWTConfigs, JWTConfig{
		Issuer: cfg.JWTIssuer,
		Secret: []byte(strings.TrimSpace(cfg.JWTSecret)),
	})
	if prev := strings.TrimSpace(cfg.JWTPrevSecret); prev != "" {
		cfg.JWTConfigs = append(cfg.JWTConfigs, JWTConfig{Issuer: cfg.JWTIssuer, Secret: []byte(prev)})
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("AUTH_JWT_SECRET must be configured")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("BUILDER_SESSION_TTL must be positive")
	}
	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("SURVEY_SUBMIT_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UseRedis reports whether builder sessions go to Redis instead of process memory.
func (c *Config) UseRedis() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Addr=%s, MongoDB=%s, SurveyCollection=%s, Redis=%t, SessionTTL=%s, SubmitEndpoint=%q, Origins=%d, JWTConfigs=%d}",
		c.Env, c.Addr, c.MongoDatabase, c.SurveyCollection, c.UseRedis(), c.SessionTTL,
		c.SubmitEndpoint, len(c.AllowedOrigins), len(c.JWTConfigs))
}

func trimList(values []string, fallback []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
