package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "YTSAVER"

	keyMode                       = "MODE"
	keyLogFilePath                = "LOG_FILE_PATH"
	keyTelegramAPIKey             = "TELEGRAM_API_KEY"
	keyTelegramLongPollingTimeout = "TELEGRAM_LONG_POLLING_TIMEOUT"
	keyDownloadTimeout            = "DOWNLOAD_TIMEOUT"
	keyDownloadDir                = "DOWNLOAD_DIR"
	keyMetricsAddr                = "METRICS_ADDR"
)

var DefaultPaths = []string{"/etc/ytsaver", "./configs", "."}

type Config struct {
	Mode                       string
	LogFilePath                string
	TelegramAPIKey             string
	TelegramLongPollingTimeout int32
	// DownloadTimeout limits a single download, zero means no limit.
	DownloadTimeout time.Duration
	DownloadDir     string
	MetricsAddr     string

	// FileUsed is empty when only environment variables were read.
	FileUsed string
}

// Load reads config.env from the first of paths that has it, then lets
// YTSAVER_* environment variables override it.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault(keyDownloadDir, ".")
	v.SetDefault(keyTelegramLongPollingTimeout, 60)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config (used file: %q): %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := Config{
		Mode:                       v.GetString(keyMode),
		LogFilePath:                v.GetString(keyLogFilePath),
		TelegramAPIKey:             v.GetString(keyTelegramAPIKey),
		TelegramLongPollingTimeout: v.GetInt32(keyTelegramLongPollingTimeout),
		DownloadTimeout:            v.GetDuration(keyDownloadTimeout),
		DownloadDir:                v.GetString(keyDownloadDir),
		MetricsAddr:                v.GetString(keyMetricsAddr),
		FileUsed:                   v.ConfigFileUsed(),
	}
	if cfg.DownloadTimeout < 0 {
		return Config{}, fmt.Errorf("%s can't be negative: %v", keyDownloadTimeout, cfg.DownloadTimeout)
	}
	return cfg, nil
}
