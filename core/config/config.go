package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"agents-manager/core/gateway"
	"agents-manager/core/journal"
	"agents-manager/core/logger"
	"agents-manager/core/reconcile"
	"agents-manager/core/server"
	"agents-manager/core/storage"
	"agents-manager/core/watcher"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the optional project configuration file.
const FileName = "agents.yaml"

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Reconcile holds synchronization settings.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
	// Remote holds the remote service connection.
	Remote gateway.Config `mapstructure:"remote"`
	// Storage holds the object storage used by the s3 backend.
	Storage storage.Config `mapstructure:"storage"`
	// Watch holds watch mode settings.
	Watch watcher.Config `mapstructure:"watch"`
	// Journal holds the sync history database.
	Journal journal.Config `mapstructure:"journal"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration for the project at root. Sources, lowest priority
// first: struct defaults, <root>/agents.yaml, <root>/.env, the process environment.
func LoadConfig(root string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Overload(filepath.Join(root, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	configFile := filepath.Join(root, FileName)
	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", configFile, err)
	}

	// Map environment variables to nested keys (e.g. REMOTE_API_KEY -> remote.api_key)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
