// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validDatabaseType = []string{"sqlite", "postgres"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.public_url", "host_public_url")

	v.BindEnv("storage.endpoint", "storage_endpoint")
	v.BindEnv("storage.region", "storage_region")
	v.BindEnv("storage.access_key_id", "storage_access_key_id")
	v.BindEnv("storage.secret_access_key", "storage_secret_access_key")
	v.BindEnv("storage.bucket", "storage_bucket")
	v.BindEnv("storage.cdn_url", "storage_cdn_url")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("translate.api_key", "translate_api_key")
	v.BindEnv("translate.endpoint", "translate_endpoint")

	v.BindEnv("cache.max_bytes", "cache_max_bytes")
	v.BindEnv("cache.max_entries", "cache_max_entries")

	v.BindEnv("database.type", "database_type")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("ffprobe.path", "ffprobe_path")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")

	v.SetDefault("storage.region", "auto")

	// Max upload size in MiB, converted to bytes at the end of Setup
	v.SetDefault("upload.max_size", 500)

	v.SetDefault("cache.max_bytes", 256<<20)
	v.SetDefault("cache.max_entries", 512)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("ffprobe.path", "ffprobe")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	// Watch links are embedded in permanent QR codes, so the public URL has
	// to be explicit rather than guessed from the listen address
	if v.GetString("host.public_url") == "" {
		v.Set("host.public_url", fmt.Sprintf("https://%s", v.GetString("host.domain")))
	}

	if v.GetString("storage.endpoint") == "" {
		return errors.New("storage endpoint can't be empty")
	}
	if v.GetString("storage.access_key_id") == "" {
		return errors.New("storage access key id can't be empty")
	}
	if v.GetString("storage.secret_access_key") == "" {
		return errors.New("storage secret access key can't be empty")
	}
	if v.GetString("storage.bucket") == "" {
		return errors.New("storage bucket can't be empty")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetInt64("cache.max_bytes") <= 0 {
		return errors.New("cache.max_bytes must be bigger than 0")
	}

	if v.GetInt("cache.max_entries") <= 0 {
		return errors.New("cache.max_entries must be bigger than 0")
	}

	if !slices.Contains(validDatabaseType, v.GetString("database.type")) {
		return errors.New("invalid database type provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
