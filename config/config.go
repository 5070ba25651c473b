// Package config loads runtime configuration from defaults, an optional
// YAML file and MCPCHAT_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration tree.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	MCP     MCPConfig     `mapstructure:"mcp"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig configures the websocket gateway.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// BackendConfig selects and tunes the language model backend.
type BackendConfig struct {
	// Provider is "openai" or "anthropic".
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// MaxConcurrent bounds in-flight backend calls.
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// MCPConfig configures the tool server connection and readiness probing.
type MCPConfig struct {
	ServerURL   string        `mapstructure:"server_url"`
	ConnectWait time.Duration `mapstructure:"connect_wait"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	CallTimeout time.Duration `mapstructure:"call_timeout"`
}

// ChatConfig bounds per-session history and prompt assembly.
type ChatConfig struct {
	MaxHistory      int `mapstructure:"max_history"`
	MaxContextTurns int `mapstructure:"max_context_turns"`
	MaxPromptLen    int `mapstructure:"max_prompt_len"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("backend.provider", "openai")
	v.SetDefault("backend.model", "")
	v.SetDefault("backend.temperature", 0.7)
	v.SetDefault("backend.timeout", 60*time.Second)
	v.SetDefault("backend.max_concurrent", 10)

	v.SetDefault("mcp.server_url", "http://localhost:8081/mcp")
	v.SetDefault("mcp.connect_wait", 3*time.Second)
	v.SetDefault("mcp.max_attempts", 3)
	v.SetDefault("mcp.retry_delay", time.Second)
	v.SetDefault("mcp.call_timeout", 30*time.Second)

	v.SetDefault("chat.max_history", 20)
	v.SetDefault("chat.max_context_turns", 10)
	v.SetDefault("chat.max_prompt_len", 8000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads configuration. cfgFile may be empty, in which case only
// defaults and environment variables apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MCPCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot produce a working system.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Backend.Provider) {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown backend provider %q", c.Backend.Provider)
	}
	if c.MCP.ServerURL == "" {
		return fmt.Errorf("mcp.server_url must not be empty")
	}
	if c.MCP.MaxAttempts <= 0 {
		return fmt.Errorf("mcp.max_attempts must be positive")
	}
	if c.Chat.MaxHistory <= 0 || c.Chat.MaxContextTurns <= 0 || c.Chat.MaxPromptLen <= 0 {
		return fmt.Errorf("chat limits must be positive")
	}
	if c.Chat.MaxContextTurns > c.Chat.MaxHistory {
		return fmt.Errorf("chat.max_context_turns must not exceed chat.max_history")
	}
	return nil
}
