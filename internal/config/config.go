// Package config resolves formkit settings from an optional .env file, an
// optional YAML config file, and FORMKIT_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formkit/pkg/storage"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Config holds application configuration.
type Config struct {
	Rules      RulesConfig      `mapstructure:"rules"`
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Validation ValidationConfig `mapstructure:"validation"`
}

// RulesConfig locates rule files and an optional OpenAPI document.
type RulesConfig struct {
	Dir     string `mapstructure:"dir"`
	OpenAPI string `mapstructure:"openapi"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	LogRequest bool   `mapstructure:"log_requests"`
}

// StorageConfig selects the draft store.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // memory | sqlite
	DSN    string `mapstructure:"dsn"`
}

// ValidationConfig holds engine settings.
type ValidationConfig struct {
	Strategy string `mapstructure:"strategy"`
	Locale   string `mapstructure:"locale"`
	Sanitize bool   `mapstructure:"sanitize"`
}

// Load reads configuration. envFiles default to ".env"; missing files are
// ignored. path names a YAML config file; when empty FORMKIT_CONFIG is used,
// then ./formkit.yaml if present. Env overrides use the FORMKIT_ prefix, for
// example FORMKIT_SERVER_ADDR.
func Load(path string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	v := viper.New()
	v.SetDefault("rules.dir", "forms")
	v.SetDefault("rules.openapi", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.log_requests", false)
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.dsn", "formkit.db")
	v.SetDefault("validation.strategy", validation.StrategyExhaustive.String())
	v.SetDefault("validation.locale", "en")
	v.SetDefault("validation.sanitize", true)

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv("FORMKIT_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("formkit")
	}

	v.SetEnvPrefix("FORMKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return c, nil
}

// ValidationOptions converts the validation settings into engine options.
func (c Config) ValidationOptions() []validation.Option {
	return []validation.Option{
		validation.WithStrategy(validation.ParseStrategy(c.Validation.Strategy)),
		validation.WithMessages(validation.MessagesForLocale(c.Validation.Locale)),
	}
}

// OpenStore opens the configured draft store. The returned close function is
// never nil.
func (c Config) OpenStore(ctx context.Context) (storage.Store, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(c.Storage.Driver)) {
	case "", "memory":
		return storage.NewMemory(), func() error { return nil }, nil
	case "sqlite", "sqlite3":
		db, err := storage.OpenSQLite(ctx, c.Storage.DSN)
		if err != nil {
			return nil, func() error { return nil }, err
		}
		return db, db.Close, nil
	default:
		return nil, func() error { return nil }, fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
}
