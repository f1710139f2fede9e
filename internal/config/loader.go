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
	envPrefix         = "ROOMGATE"
	envConfigDir      = envPrefix + "_CONFIG_DEFAULT_PATH"
	defaultConfigName = "config.yaml"
	defaultFileHeader = "# roomgate configuration. Every key can be overridden with " + envPrefix + "_<KEY>.\n"
)

// Load resolves configuration from defaults, the yaml file at explicitPath (or
// the default location) and ROOMGATE_* env vars. A missing file is created
// with the defaults. It returns the path that was used.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	cfg := Default()
	path := resolveConfigPath(explicitPath)

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	for key, value := range defaultValues(cfg) {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	switch {
	case err == nil:
	case isNotFound(err):
		if err := writeDefaultConfig(path, cfg); err != nil {
			warn(logger, err, path, "failed to write default config")
			break
		}
		info(logger, path, "created default config")
		if err := v.ReadInConfig(); err != nil {
			warn(logger, err, path, "failed to read config after writing default")
		}
	default:
		return cfg, path, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, path, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, path, fmt.Errorf("validate config: %w", err)
	}
	return cfg, path, nil
}

// defaultValues lists every key so env vars are honoured even when the file
// omits them.
func defaultValues(cfg Config) map[string]any {
	return map[string]any{
		"addr":                cfg.Addr,
		"read_header_timeout": cfg.ReadHeaderTimeout,
		"shutdown_timeout":    cfg.ShutdownTimeout,
		"log_level":           cfg.LogLevel,
		"max_message_bytes":   cfg.MaxMessageBytes,
		"commands_per_minute": cfg.CommandsPerMinute,
		"session_secret":      cfg.SessionSecret,
		"session_issuer":      cfg.SessionIssuer,
		"session_audience":    cfg.SessionAudience,
		"session_ttl":         cfg.SessionTTL,
	}
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if dir := os.Getenv(envConfigDir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return filepath.Join(dir, defaultConfigName)
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, defaultConfigName)
	}
	return defaultConfigName
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	// The file holds the session secret.
	return os.WriteFile(path, append([]byte(defaultFileHeader), body...), 0o600)
}

func warn(logger *zerolog.Logger, err error, path, msg string) {
	if logger != nil {
		logger.Warn().Err(err).Str("path", path).Msg(msg)
	}
}

func info(logger *zerolog.Logger, path, msg string) {
	if logger != nil {
		logger.Info().Str("path", path).Msg(msg)
	}
}
