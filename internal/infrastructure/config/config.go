package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig   `mapstructure:"server"`
	Log        LogConfig      `mapstructure:"log"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
	Aria2      Aria2Config    `mapstructure:"aria2"`
	Status     StatusConfig   `mapstructure:"status"`
	Download   DownloadConfig `mapstructure:"download"`
	Limits     LimitsConfig   `mapstructure:"limits"`
	Web        WebConfig      `mapstructure:"web"`
	Metrics    MetricsConfig  `mapstructure:"metrics"`
	CreditName string         `mapstructure:"credit_name"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"` // console, file, both
	Format    string `mapstructure:"format"` // text, json
	FilePath  string `mapstructure:"file_path"`
	Colorize  bool   `mapstructure:"colorize"`
	AddSource bool   `mapstructure:"add_source"`
}

type TelegramConfig struct {
	BotToken     string        `mapstructure:"bot_token"`
	APIEndpoint  string        `mapstructure:"api_endpoint"` // 自建 Bot API 服务, 格式同 tgbotapi.APIEndpoint
	Enabled      bool          `mapstructure:"enabled"`
	AdminIDs     []int64       `mapstructure:"admin_ids"`
	QPS          int           `mapstructure:"qps"`           // 全局发送QPS, 0 不限
	EditInterval time.Duration `mapstructure:"edit_interval"` // 同一聊天两次编辑的最小间隔
	Webhook      WebhookConfig `mapstructure:"webhook"`
}

type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type Aria2Config struct {
	RpcURL  string        `mapstructure:"rpc_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StatusConfig struct {
	Theme          string        `mapstructure:"theme"` // emoji, plain
	Limit          int           `mapstructure:"limit"` // 每页任务数, 0 不分页
	UpdateInterval time.Duration `mapstructure:"update_interval"`
	CancelCommand  string        `mapstructure:"cancel_command"`
	StatsCallback  string        `mapstructure:"stats_callback"`
}

type DownloadConfig struct {
	Dir           string `mapstructure:"dir"`
	UserTaskLimit int    `mapstructure:"user_task_limit"` // 每个用户同时进行的任务数, 0 不限
	Seed          bool   `mapstructure:"seed"`            // 种子下载完成后继续做种
}

// LimitsConfig 单位GB, 0 表示不限
type LimitsConfig struct {
	TorrentDirect float64 `mapstructure:"torrent_direct"`
	ZipUnzip      float64 `mapstructure:"zip_unzip"`
	Leech         float64 `mapstructure:"leech"`
	Mega          float64 `mapstructure:"mega"`
}

// WebConfig 种子选文件页面
type WebConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Pincode bool   `mapstructure:"pincode"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoadConfig 读取 ./configs 或当前目录下的 config.yaml, 环境变量 MIRROR_* 覆盖
func LoadConfig() (*Config, error) {
	return load(viper.New(), "")
}

// LoadFile 读取指定配置文件
func LoadFile(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MIRROR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file_path", "./logs/mirror.log")
	v.SetDefault("log.colorize", true)

	// 未配置token时不会自动绑定环境变量, 需要显式声明
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.api_endpoint", "")
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.qps", 20)
	v.SetDefault("telegram.edit_interval", "3s")
	v.SetDefault("telegram.webhook.enabled", false)

	v.SetDefault("aria2.rpc_url", "http://localhost:6800/jsonrpc")
	v.SetDefault("aria2.token", "")
	v.SetDefault("aria2.timeout", "30s")

	v.SetDefault("status.theme", "emoji")
	v.SetDefault("status.limit", 4)
	v.SetDefault("status.update_interval", "10s")
	v.SetDefault("status.cancel_command", "cancel")
	v.SetDefault("status.stats_callback", "stats")

	v.SetDefault("download.dir", "/downloads")
	v.SetDefault("download.user_task_limit", 0)
	v.SetDefault("download.seed", false)

	v.SetDefault("limits.torrent_direct", 0)
	v.SetDefault("limits.zip_unzip", 0)
	v.SetDefault("limits.leech", 0)
	v.SetDefault("limits.mega", 0)

	v.SetDefault("web.base_url", "")
	v.SetDefault("web.pincode", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("credit_name", "mirror-status-bot")
}

// Validate 检查互相依赖的配置项
func (c *Config) Validate() error {
	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
	}
	if c.Telegram.Webhook.Enabled && c.Telegram.Webhook.URL == "" {
		return fmt.Errorf("telegram.webhook.url is required when webhook is enabled")
	}
	if c.Status.Limit < 0 {
		return fmt.Errorf("status.limit must not be negative, got %d", c.Status.Limit)
	}
	if c.Status.UpdateInterval < time.Second {
		return fmt.Errorf("status.update_interval must be at least 1s, got %s", c.Status.UpdateInterval)
	}
	return nil
}
