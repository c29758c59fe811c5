// Package config loads layered configuration for bookmarks-sync:
// environment variables override an optional .env file, which overrides
// the struct-tag defaults below. There is no flag layer; the CLI's only
// flag, --config-dir, chooses where the .env file is read from. Grounded on
// momlesstomato-asset-manager's core/config/config.go: the same
// reflection-driven bindValues walk over mapstructure/default tags,
// generalized from that repo's server/storage/database/log sections to
// this repo's storage/uploader/log sections.
package config

import (
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dastanaron/bookmarks-sync/internal/logging"
)

// StorageConfig controls where the local SQLite database lives.
type StorageConfig struct {
	// Path is the filesystem path to the SQLite database file.
	Path string `mapstructure:"path" default:"bookmarks.db"`
}

// UploaderConfig controls where merged records are POSTed.
type UploaderConfig struct {
	// Endpoint is the sync server URL the HTTP uploader posts to.
	Endpoint string `mapstructure:"endpoint" default:""`
	// TimeoutSeconds bounds a single Post call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Config holds all configuration for the application, divided into
// partial configs for better modularity.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Uploader UploaderConfig `mapstructure:"uploader"`
	Log      logging.Config `mapstructure:"log"`
}

// Load loads configuration from an optional .env file in dir, then
// environment variables, then registered struct-tag defaults, in that
// order of precedence (env wins over .env, .env wins over default).
// Load builds its own viper instance, so no command-line flag can
// override a value it returns.
func Load(dir string) (*Config, error) {
	envPath := dir + "/.env"
	if dir == "" || dir == "." {
		envPath = ".env"
	}
	// Load, not Overload: an already-set OS environment variable must win
	// over the same key in .env, matching the env > file > default
	// precedence.
	_ = godotenv.Load(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindValues uses reflection to walk iface's fields and register every
// mapstructure-tagged leaf's default tag as a viper default, recursing
// into nested structs with a dotted key prefix.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
