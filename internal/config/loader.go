package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix            = "RELAYCHAT"
	envConfigDefaultPath = "RELAYCHAT_CONFIG_DEFAULT_PATH"
	defaultConfigName    = "config.yaml"
)

// Load builds configuration from defaults, optional config file, env vars, and returns the resolved path.
// Precedence: defaults < config file < env vars < caller overrides.
// A missing file is created from the defaults.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	cfg := Default()
	configPath := resolveConfigPath(explicitPath)

	defaults, err := yaml.Marshal(cfg)
	if err != nil {
		return cfg, configPath, fmt.Errorf("encode defaults: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := registerDefaults(v, defaults); err != nil {
		return cfg, configPath, err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(configPath)
	switch err := v.ReadInConfig(); {
	case err == nil:
	case isMissing(err):
		// Defaults are already registered, so the fresh file needs no re-read.
		if writeErr := writeDefaultConfig(configPath, defaults); writeErr != nil {
			warn(logger, writeErr, configPath, "failed to write default config")
		} else if logger != nil {
			logger.Info().Str("path", configPath).Msg("created default config")
		}
	default:
		return cfg, configPath, fmt.Errorf("read config: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, configPath, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, configPath, nil
}

// registerDefaults declares every top-level key of the encoded defaults.
// Keys unknown to viper are invisible to AutomaticEnv during Unmarshal.
func registerDefaults(v *viper.Viper, encoded []byte) error {
	var values map[string]any
	if err := yaml.Unmarshal(encoded, &values); err != nil {
		return fmt.Errorf("decode defaults: %w", err)
	}
	for key, value := range values {
		v.SetDefault(key, value)
	}
	return nil
}

func isMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func warn(logger *zerolog.Logger, err error, path, msg string) {
	if logger != nil {
		logger.Warn().Err(err).Str("path", path).Msg(msg)
	}
}

func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if base := os.Getenv(envConfigDefaultPath); base != "" {
		if err := os.MkdirAll(base, 0o755); err == nil {
			return filepath.Join(base, defaultConfigName)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(cwd, defaultConfigName)
}

func writeDefaultConfig(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
