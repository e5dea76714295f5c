package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Redis        RedisConfig        `yaml:"redis"`
	Logger       LoggerConfig       `yaml:"logger"`
	AgentService AgentServiceConfig `yaml:"agent_service"`
	Form         FormConfig         `yaml:"form"`
	Notification NotificationConfig `yaml:"notification"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Port   int    `yaml:"port"`
	Mode   string `yaml:"mode"`    // debug, release
	APIKey string `yaml:"api_key"` // Dashboard API key (optional, if empty, auth is disabled)
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path string `yaml:"path"`
}

// AgentServiceConfig external agent service the form submits to
type AgentServiceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`   // Bearer token (optional)
	Timeout time.Duration `yaml:"timeout"` // Request timeout
}

// FormConfig hosted form page configuration
type FormConfig struct {
	SessionStore      string        `yaml:"session_store"`        // memory, redis
	SessionTTL        time.Duration `yaml:"session_ttl"`          // Idle lifetime of a page instance
	DefaultLanguage   string        `yaml:"default_language"`     // Fallback when Accept-Language matches nothing
	MaxConfigFileSize int64         `yaml:"max_config_file_size"` // Upload limit in bytes
}

// NotificationConfig notification configuration
type NotificationConfig struct {
	FeishuWebhookURL string `yaml:"feishu_webhook_url"`
}

// Defaults
const (
	DefaultPort              = 8090
	DefaultAgentServiceURL   = "http://127.0.0.1:8080"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultSessionStore      = "memory"
	DefaultSessionTTL        = 30 * time.Minute
	DefaultLanguage          = "en-US"
	DefaultMaxConfigFileSize = 10 << 20
)

// Init initializes configuration
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		return err
	}

	GlobalConfig = cfg
	return nil
}

// Load reads and defaults the configuration file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	validateAndApplyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	validateAndApplyDefaults(cfg)
	return cfg
}

// validateAndApplyDefaults replaces missing or invalid values with defaults
func validateAndApplyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.Mode != "debug" && cfg.Server.Mode != "release" {
		cfg.Server.Mode = "release"
	}
	if cfg.Logger.Output == "" {
		cfg.Logger.Output = "console"
	}
	if cfg.Logger.Output != "console" && cfg.Logger.File.Path == "" {
		cfg.Logger.File.Path = "logs/agentconsole.log"
	}
	if cfg.AgentService.BaseURL == "" {
		cfg.AgentService.BaseURL = DefaultAgentServiceURL
	}
	if cfg.AgentService.Timeout <= 0 {
		cfg.AgentService.Timeout = DefaultRequestTimeout
	}
	if cfg.Form.SessionStore != "memory" && cfg.Form.SessionStore != "redis" {
		cfg.Form.SessionStore = DefaultSessionStore
	}
	if cfg.Form.SessionTTL <= 0 {
		cfg.Form.SessionTTL = DefaultSessionTTL
	}
	if cfg.Form.DefaultLanguage == "" {
		cfg.Form.DefaultLanguage = DefaultLanguage
	}
	if cfg.Form.MaxConfigFileSize <= 0 {
		cfg.Form.MaxConfigFileSize = DefaultMaxConfigFileSize
	}
	if cfg.Notification.FeishuWebhookURL == "" {
		cfg.Notification.FeishuWebhookURL = os.Getenv("FEISHU_WEBHOOK_URL")
	}
}
