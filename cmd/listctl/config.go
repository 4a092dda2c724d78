package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "listctl"
	configFileType = "yaml"

	cfgKeyPageSize    = "page_size"
	cfgKeyTimeZone    = "timezone"
	cfgKeyFixturesDir = "fixtures_dir"
	cfgKeyLogLevel    = "log_level"
	cfgKeyJWTSecret   = "jwt.secret"
	cfgKeyJWTTTL      = "jwt.access_ttl"
)

// loadConfig читает listctl.yaml из configDir (или текущего каталога).
// Любой ключ переопределяется переменной LISTCTL_<KEY>, например LISTCTL_JWT_SECRET.
// Отсутствие файла не ошибка.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyPageSize, 10)
	v.SetDefault(cfgKeyTimeZone, "Asia/Kolkata")
	v.SetDefault(cfgKeyFixturesDir, "")
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyJWTSecret, "dev-secret")
	v.SetDefault(cfgKeyJWTTTL, 24*time.Hour)

	v.SetEnvPrefix("LISTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func location(v *viper.Viper) *time.Location {
	loc, err := time.LoadLocation(v.GetString(cfgKeyTimeZone))
	if err != nil {
		return time.UTC
	}
	return loc
}
