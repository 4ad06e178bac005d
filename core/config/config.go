package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"vocab-manager/core/database"
	"vocab-manager/core/logger"
	"vocab-manager/core/server"
	"vocab-manager/core/storage"
	"vocab-manager/core/validation"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server and its auth.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage holding image associations.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Cache holds configuration for in-process lookup caches.
	Cache CacheConfig `mapstructure:"cache"`
}

// CacheConfig holds TTLs for in-process caches.
type CacheConfig struct {
	// LanguageTTLSeconds is how long resolved languages stay cached. Zero disables caching.
	LanguageTTLSeconds int `mapstructure:"language_ttl_seconds" default:"300" validate:"gte=0"`
}

// LoadConfig loads configuration from the .env file in dir and the environment,
// then validates it.
func LoadConfig(dir string) (*Config, error) {
	// Missing .env is fine (production uses real env vars)
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()

	bindValues(v, Config{}, "")

	// SERVER_PORT -> server.port
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := validation.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
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

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
