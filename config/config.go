package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the planner service. It is built
// once at startup and passed by reference into every component; nothing
// reads the environment after Load returns.
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	Server     ServerConfig     `mapstructure:"server"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Conference ConferenceConfig `mapstructure:"conference"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains the completion-model settings for the planning agent
type LLMConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Model         string        `mapstructure:"model"`
	Temperature   float64       `mapstructure:"temperature"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxToolRounds int           `mapstructure:"max_tool_rounds"`
}

func (c LLMConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("llm.api_key is required (or set OPENAI_API_KEY)")
	}
	return nil
}

// ConferenceConfig contains the conference search endpoint and the
// fixed calendar context every urgency computation runs against.
type ConferenceConfig struct {
	Name          string        `mapstructure:"name"`
	Year          int           `mapstructure:"year"`
	SearchURL     string        `mapstructure:"search_url"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
	ReferenceDate string        `mapstructure:"reference_date"`
}

func (c ConferenceConfig) Validate() error {
	if strings.TrimSpace(c.SearchURL) == "" {
		return fmt.Errorf("conference.search_url is required")
	}
	return nil
}

// ReferenceTime resolves the process-wide "today" used for all relative
// date computations. An unset or malformed reference_date falls back to
// the built-in default rather than failing startup.
func (c ConferenceConfig) ReferenceTime() time.Time {
	if d, err := time.Parse("2006-01-02", c.ReferenceDate); err == nil {
		return d
	}
	return time.Date(c.Year, time.June, 11, 0, 0, 0, 0, time.UTC)
}

// Defaults returns a Config populated with built-in defaults only. Used
// by commands that need the calendar context without a full deployment
// config, and by tests.
func Defaults() *Config {
	return &Config{
		General: GeneralConfig{LogLevel: "info"},
		Server:  ServerConfig{Address: ":8080"},
		LLM: LLMConfig{
			BaseURL:       "https://api.openai.com/v1",
			Model:         "gpt-4o",
			Temperature:   0.7,
			MaxTokens:     2048,
			Timeout:       90 * time.Second,
			MaxToolRounds: 6,
		},
		Conference: ConferenceConfig{
			Name:          "Vivatech",
			Year:          2025,
			SearchTimeout: 30 * time.Second,
		},
	}
}

// Load reads configuration from an optional json config file plus
// CONFPLANNER_* environment overrides. Secrets arrive through the
// environment, so a missing config file is only an error when an
// explicit path was given.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")

	// every key needs a default registered or AutomaticEnv will not
	// surface it through Unmarshal
	def := Defaults()
	v.SetDefault("general.debug", def.General.Debug)
	v.SetDefault("general.log_level", def.General.LogLevel)
	v.SetDefault("server.address", def.Server.Address)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", def.LLM.BaseURL)
	v.SetDefault("llm.model", def.LLM.Model)
	v.SetDefault("llm.temperature", def.LLM.Temperature)
	v.SetDefault("llm.max_tokens", def.LLM.MaxTokens)
	v.SetDefault("llm.timeout", def.LLM.Timeout)
	v.SetDefault("llm.max_tool_rounds", def.LLM.MaxToolRounds)
	v.SetDefault("conference.name", def.Conference.Name)
	v.SetDefault("conference.year", def.Conference.Year)
	v.SetDefault("conference.search_url", "")
	v.SetDefault("conference.search_timeout", def.Conference.SearchTimeout)
	v.SetDefault("conference.reference_date", "")

	if path == "" {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("CONFPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// same fallback the rest of the OpenAI tooling uses
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Conference.Year == 0 {
		cfg.Conference.Year = def.Conference.Year
	}
	if cfg.Conference.SearchTimeout <= 0 {
		cfg.Conference.SearchTimeout = def.Conference.SearchTimeout
	}

	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Conference.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
