package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"strings"
)

// ErrNotConfigured is returned when no config file exists yet. The CLI
// turns this into a hint to run "alertgate init".
var ErrNotConfigured = errors.New("config file not found")

// ErrNoChannels is returned when the config exists but not a single
// channel is enabled. Treated as fatal before any send attempt.
var ErrNoChannels = errors.New("no channels configured")

// Config is the main struct that holds all configuration for the application.
type Config struct {
	Logger             LoggerConfig        `mapstructure:"logger" json:"logger"`
	HTTP               HTTPConfig          `mapstructure:"http" json:"http"`
	Channels           ChannelsConfig      `mapstructure:"channels" json:"channels"`
	Events             map[string][]string `mapstructure:"events" json:"events"`
	QuietHours         QuietHoursConfig    `mapstructure:"quiet_hours" json:"quiet_hours"`
	DedupWindowSeconds int                 `mapstructure:"dedup_window_seconds" json:"dedup_window_seconds"`
	DedupIncludeLevel  bool                `mapstructure:"dedup_include_level" json:"dedup_include_level"`
	SendTimeoutSeconds int                 `mapstructure:"send_timeout_seconds" json:"send_timeout_seconds"`
	Redis              RedisConfig         `mapstructure:"redis" json:"redis"`
	Postgres           PostgresConfig      `mapstructure:"postgres" json:"postgres"`
}

// LoggerConfig holds logging-specific settings.
type LoggerConfig struct {
	Level string `mapstructure:"level" json:"level"`
}

// HTTPConfig holds settings for the optional serve mode.
type HTTPConfig struct {
	Port    string `mapstructure:"port" json:"port"`
	GinMode string `mapstructure:"gin_mode" json:"gin_mode"`
}

// ChannelsConfig holds per-platform delivery settings.
type ChannelsConfig struct {
	Teams    TeamsConfig    `mapstructure:"teams" json:"teams"`
	Feishu   FeishuConfig   `mapstructure:"feishu" json:"feishu"`
	Wechat   WechatConfig   `mapstructure:"wechat" json:"wechat"`
	Email    EmailConfig    `mapstructure:"email" json:"email"`
	Telegram TelegramConfig `mapstructure:"telegram" json:"telegram"`
	AMQP     AMQPConfig     `mapstructure:"amqp" json:"amqp"`
}

// TeamsConfig holds settings for the Microsoft Teams webhook channel.
type TeamsConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Webhook string `mapstructure:"webhook" json:"webhook"`
}

// FeishuConfig holds settings for the Feishu bot webhook channel.
type FeishuConfig struct {
	Enabled         bool   `mapstructure:"enabled" json:"enabled"`
	Webhook         string `mapstructure:"webhook" json:"webhook"`
	AtAllOnCritical bool   `mapstructure:"at_all_on_critical" json:"at_all_on_critical"`
}

// Wechat push service backends.
const (
	WechatServerChan = "serverchan"
	WechatPushPlus   = "pushplus"
)

// WechatConfig holds settings for the WeChat push channel. Key is the
// ServerChan key or the PushPlus token, depending on Service.
type WechatConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Service string `mapstructure:"service" json:"service"`
	Key     string `mapstructure:"key" json:"key"`
}

// EmailConfig holds SMTP settings for the email channel.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled" json:"enabled"`
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	Username string `mapstructure:"username" json:"username"`
	Password string `mapstructure:"password" json:"password"`
	From     string `mapstructure:"from" json:"from"`
	To       string `mapstructure:"to" json:"to"`
}

// TelegramConfig holds settings for the Telegram channel.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled" json:"enabled"`
	BotToken string `mapstructure:"bot_token" json:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id" json:"chat_id"`
}

// AMQPConfig holds settings for the AMQP fan-out channel, which publishes
// the rendered message to an exchange for other consumers.
type AMQPConfig struct {
	Enabled  bool   `mapstructure:"enabled" json:"enabled"`
	DSN      string `mapstructure:"dsn" json:"dsn"`
	Exchange string `mapstructure:"exchange" json:"exchange"`
}

// QuietHoursConfig defines the local-time window during which non-critical
// notifications are suppressed. A window with start > end wraps midnight.
type QuietHoursConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Start   string `mapstructure:"start" json:"start"`
	End     string `mapstructure:"end" json:"end"`
}

// RedisConfig enables the shared dedup store for daemon mode. An empty
// Addr selects the in-process store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr"`
	Password string `mapstructure:"password" json:"password"`
	DB       int    `mapstructure:"db" json:"db"`
}

// PostgresConfig enables the delivery-history log. An empty DSN disables it.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn" json:"dsn"`
}

// DefaultPath returns the config file location, honouring the
// ALERTGATE_CONFIG environment variable.
func DefaultPath() (string, error) {
	if p := os.Getenv("ALERTGATE_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "alertgate", "config.json"), nil
}

// Load parses the JSON config file and environment variables into a
// validated Config. A missing file is reported as ErrNotConfigured.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("logger.level", "info")
	v.SetDefault("http.port", ":8080")
	v.SetDefault("http.gin_mode", "release")
	v.SetDefault("dedup_window_seconds", 300)
	v.SetDefault("send_timeout_seconds", 10)
	v.SetDefault("quiet_hours.start", "22:00")
	v.SetDefault("quiet_hours.end", "08:00")

	v.SetEnvPrefix("alertgate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("%w at %s (run \"alertgate init\" first)", ErrNotConfigured, path)
		}
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	if c.QuietHours.Enabled {
		for _, clock := range []string{c.QuietHours.Start, c.QuietHours.End} {
			if _, err := time.Parse("15:04", clock); err != nil {
				return fmt.Errorf("invalid quiet_hours time %q: %w", clock, err)
			}
		}
	}
	if c.Channels.Wechat.Enabled {
		switch c.Channels.Wechat.Service {
		case WechatServerChan, WechatPushPlus:
		default:
			return fmt.Errorf("invalid wechat service %q (want %s or %s)",
				c.Channels.Wechat.Service, WechatServerChan, WechatPushPlus)
		}
	}
	if c.DedupWindowSeconds < 0 {
		return fmt.Errorf("dedup_window_seconds must not be negative")
	}
	return nil
}

// DedupWindow returns the duplicate-suppression window as a duration.
func (c *Config) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowSeconds) * time.Second
}

// SendTimeout returns the per-channel delivery timeout.
func (c *Config) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutSeconds) * time.Second
}

// Default returns the config written by "alertgate init": all channels
// present but disabled, the stock event routing table and quiet hours on.
func Default() *Config {
	return &Config{
		Logger: LoggerConfig{Level: "info"},
		HTTP:   HTTPConfig{Port: ":8080", GinMode: "release"},
		Channels: ChannelsConfig{
			Wechat: WechatConfig{Service: WechatServerChan},
			Email:  EmailConfig{Port: 587},
		},
		Events: map[string][]string{
			"build_success":  {"teams", "feishu"},
			"build_failure":  {"teams", "feishu", "wechat"},
			"security_alert": {"teams", "feishu", "wechat"},
			"daily_report":   {"feishu"},
		},
		QuietHours:         QuietHoursConfig{Enabled: true, Start: "22:00", End: "08:00"},
		DedupWindowSeconds: 300,
		SendTimeoutSeconds: 10,
	}
}

// Init writes the default config to path, creating parent directories.
// It refuses to overwrite an existing file.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	content, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal default config: %w", err)
	}
	return os.WriteFile(path, append(content, '\n'), 0o600)
}
