package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr                  string           `json:"addr" yaml:"addr" toml:"addr"`
	Port                  int              `json:"port" yaml:"port" toml:"port"`
	LogLevel              string           `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat             string           `json:"log_format" yaml:"log_format" toml:"log_format"`
	MaxBodyBytes          int64            `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	RequestTimeoutSeconds int64            `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`
	StageTimeoutSeconds   int64            `json:"stage_timeout_seconds" yaml:"stage_timeout_seconds" toml:"stage_timeout_seconds"`
	MaxHistory            int              `json:"max_history" yaml:"max_history" toml:"max_history"`
	StaticDir             string           `json:"static_dir" yaml:"static_dir" toml:"static_dir"`
	CORS                  CORSConfig       `json:"cors" yaml:"cors" toml:"cors"`
	Classifier            ClassifierConfig `json:"classifier" yaml:"classifier" toml:"classifier"`
	LLM                   LLMConfig        `json:"llm" yaml:"llm" toml:"llm"`
}

// CORSConfig is opt-in; when disabled no CORS middleware is installed.
type CORSConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Headers []string `json:"headers" yaml:"headers" toml:"headers"`
}

// ClassifierConfig locates the classification endpoints. Each backend entry
// is either an absolute URL or a model id appended to BaseURL.
type ClassifierConfig struct {
	BaseURL               string `json:"base_url" yaml:"base_url" toml:"base_url"`
	Token                 string `json:"token" yaml:"token" toml:"token"`
	ConnectTimeoutSeconds int64  `json:"connect_timeout_seconds" yaml:"connect_timeout_seconds" toml:"connect_timeout_seconds"`
	Distilbert            string `json:"distilbert" yaml:"distilbert" toml:"distilbert"`
	Roberta               string `json:"roberta" yaml:"roberta" toml:"roberta"`
	ZeroShot              string `json:"zero_shot" yaml:"zero_shot" toml:"zero_shot"`
}

// LLMConfig selects the text-generation provider.
type LLMConfig struct {
	Provider    string   `json:"provider" yaml:"provider" toml:"provider"`
	Model       string   `json:"model" yaml:"model" toml:"model"`
	APIKey      string   `json:"api_key" yaml:"api_key" toml:"api_key"`
	BaseURL     string   `json:"base_url" yaml:"base_url" toml:"base_url"`
	Temperature *float32 `json:"temperature" yaml:"temperature" toml:"temperature"`
}

// Defaults.
const (
	DefaultPort              = 8000
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
	DefaultClassifierBaseURL = "https://api-inference.huggingface.co/models"
	DefaultZeroShotModel     = "facebook/bart-large-mnli"
	DefaultProvider          = "openai"
	DefaultTemperature       = float32(0.7)
)

// LoadDotEnv loads variables from a .env file when one exists. Variables
// already set in the environment win.
func LoadDotEnv(paths ...string) error {
	var present []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			present = append(present, p)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// ApplyEnv overrides fields from environment variables via getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("INTENTD_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("PORT"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 || n > 65535 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		c.Port = n
	}
	if v := getenv("INTENTD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("INTENTD_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := getenv("INTENTD_CLASSIFIER_URL"); v != "" {
		c.Classifier.BaseURL = v
	}
	if v := getenv("HF_API_TOKEN"); v != "" {
		c.Classifier.Token = v
	}
	if v := getenv("INTENTD_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := getenv("INTENTD_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := getenv("INTENTD_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := getenv("INTENTD_CORS_ORIGINS"); v != "" {
		c.CORS.Enabled = true
		c.CORS.Origins = splitCSV(v)
	}
	if c.LLM.APIKey == "" {
		key := "OPENAI_API_KEY"
		if strings.EqualFold(c.LLM.Provider, "gemini") {
			key = "GEMINI_API_KEY"
		}
		c.LLM.APIKey = getenv(key)
	}
	return nil
}

// ApplyDefaults fills unspecified fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Addr == "" {
		c.Addr = ":" + strconv.Itoa(c.Port)
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.Classifier.BaseURL == "" {
		c.Classifier.BaseURL = DefaultClassifierBaseURL
	}
	if c.Classifier.Distilbert == "" {
		c.Classifier.Distilbert = "distilbert"
	}
	if c.Classifier.Roberta == "" {
		c.Classifier.Roberta = "roberta"
	}
	if c.Classifier.ZeroShot == "" {
		c.Classifier.ZeroShot = DefaultZeroShotModel
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.CORS.Enabled {
		if len(c.CORS.Methods) == 0 {
			c.CORS.Methods = []string{"GET", "POST", "OPTIONS"}
		}
		if len(c.CORS.Headers) == 0 {
			c.CORS.Headers = []string{"Content-Type", "X-Session-ID", "X-Log-Level"}
		}
	}
	if c.LLM.Temperature == nil {
		t := DefaultTemperature
		c.LLM.Temperature = &t
	}
}

// Resolve loads path (if non-empty), applies environment overrides and then
// defaults. It is the single entry point used by the CLI.
func Resolve(path string, getenv func(string) string) (Config, error) {
	var cfg Config
	if path != "" {
		c, err := Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// splitCSV splits a comma-separated list, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
