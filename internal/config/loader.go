package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix            = "LINECHAT"
	envConfigDefaultPath = "LINECHAT_CONFIG_DEFAULT_PATH"
	defaultConfigName    = "linechat.yaml"
)

// Load builds configuration from defaults, optional config file, env vars, and returns the resolved path.
// Precedence: defaults < config file < env vars < caller overrides.
// A missing file is created from the defaults only when its location was
// chosen explicitly, through explicitPath or LINECHAT_CONFIG_DEFAULT_PATH.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("transport", cfg.Transport)
	v.SetDefault("ws_path", cfg.WSPath)
	v.SetDefault("connect_timeout", cfg.ConnectTimeout)
	v.SetDefault("event_buffer", cfg.EventBuffer)
	v.SetDefault("username", cfg.Username)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("detect_timeout", cfg.DetectTimeout)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, explicit := resolveConfigPath(explicitPath)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist):
			return cfg, configPath, fmt.Errorf("read config: %w", err)
		case !explicit:
			if logger != nil {
				logger.Debug().Str("path", configPath).Msg("no config file, using defaults")
			}
		default:
			if writeErr := writeDefaultConfig(configPath, cfg); writeErr != nil {
				if logger != nil {
					logger.Warn().Err(writeErr).Str("path", configPath).Msg("failed to write default config")
				}
			} else {
				if logger != nil {
					logger.Info().Str("path", configPath).Msg("created default config")
				}
				if readErr := v.ReadInConfig(); readErr != nil && logger != nil {
					logger.Warn().Err(readErr).Str("path", configPath).Msg("failed to read config after writing default")
				}
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, configPath, nil
}

// resolveConfigPath also reports whether the location was chosen explicitly.
func resolveConfigPath(explicitPath string) (string, bool) {
	if explicitPath != "" {
		return explicitPath, true
	}

	if base := os.Getenv(envConfigDefaultPath); base != "" {
		if err := os.MkdirAll(base, 0o755); err == nil {
			return filepath.Join(base, defaultConfigName), true
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName, false
	}
	return filepath.Join(cwd, defaultConfigName), false
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
