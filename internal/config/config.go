package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/capitalagent/core/agent"
	"github.com/leofalp/capitalagent/internal/capital"
	slogobs "github.com/leofalp/capitalagent/providers/observability/slog"
)

// Environment variables read by Load.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvBaseURL     = "GEMINI_BASE_URL"
	EnvModel       = "GEMINI_MODEL"
	EnvAgentFile   = "CAPITAL_AGENT_FILE"
	EnvQuery       = "CAPITAL_QUERY"
	EnvHTTPTimeout = "CAPITAL_HTTP_TIMEOUT"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.0-flash"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is everything the capital agent needs to run once.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Agent   agent.Definition
	Query   string
	// HTTPTimeout bounds the whole remote call; zero means no limit.
	HTTPTimeout time.Duration
	LogLevel    slog.Level
	LogFormat   string
}

// Load reads the configuration from the environment. envFiles are loaded
// first with godotenv (".env" when none is given); a missing file is not an
// error and variables already set in the environment win.
//
// Every failure is a *ConfigurationError.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigurationError{Key: ".env", Reason: "cannot load env file", Err: err}
	}

	cfg := &Config{
		APIKey:  strings.TrimSpace(os.Getenv(EnvAPIKey)),
		BaseURL: strings.TrimSpace(os.Getenv(EnvBaseURL)),
		Model:   strings.TrimSpace(os.Getenv(EnvModel)),
		Query:   os.Getenv(EnvQuery),
	}
	if cfg.APIKey == "" {
		return nil, &ConfigurationError{Key: EnvAPIKey, Reason: "is not set"}
	}

	if raw := strings.TrimSpace(os.Getenv(EnvHTTPTimeout)); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, &ConfigurationError{Key: EnvHTTPTimeout, Reason: "is not a duration", Err: err}
		}
		cfg.HTTPTimeout = timeout
	}

	level, err := slogobs.ParseLogLevel(os.Getenv(EnvLogLevel))
	if err != nil {
		return nil, &ConfigurationError{Key: EnvLogLevel, Reason: "is not a log level", Err: err}
	}
	cfg.LogLevel = level
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogFormat)))

	if path := strings.TrimSpace(os.Getenv(EnvAgentFile)); path != "" {
		def, err := LoadAgentDefinition(path)
		if err != nil {
			return nil, err
		}
		cfg.Agent = *def
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAgentDefinition reads an agent definition from a YAML file.
// Missing fields are left empty for applyDefaults to fill.
func LoadAgentDefinition(path string) (*agent.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Key: EnvAgentFile, Reason: "cannot read agent file", Err: err}
	}

	var def agent.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &ConfigurationError{Key: EnvAgentFile, Reason: "agent file is not valid YAML", Err: err}
	}
	return &def, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if strings.TrimSpace(cfg.Query) == "" {
		cfg.Query = capital.DefaultQuery
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = LogFormatText
	}

	// fields set by the agent file win, including its model
	def := capital.DefaultDefinition(cfg.Model)
	if cfg.Agent.Name != "" {
		def.Name = cfg.Agent.Name
	}
	if cfg.Agent.Instructions != "" {
		def.Instructions = cfg.Agent.Instructions
	}
	if cfg.Agent.Model != "" {
		def.Model = cfg.Agent.Model
	}
	cfg.Agent = def
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &ConfigurationError{Key: EnvAPIKey, Reason: "is not set"}
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return &ConfigurationError{Key: EnvBaseURL, Reason: fmt.Sprintf("%q is not an http(s) URL", c.BaseURL)}
	}
	if c.HTTPTimeout < 0 {
		return &ConfigurationError{Key: EnvHTTPTimeout, Reason: "must not be negative"}
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return &ConfigurationError{Key: EnvLogFormat, Reason: fmt.Sprintf("%q is not one of text, json", c.LogFormat)}
	}
	if err := c.Agent.Validate(); err != nil {
		return &ConfigurationError{Key: EnvAgentFile, Reason: "invalid agent definition", Err: err}
	}
	return nil
}
