package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything overview-go needs at startup. Values come from an
// optional yaml file plus OVERVIEW_* environment overrides.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	TokenFile       string
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("http.addr", ":8082")
	v.SetDefault("log.level", "info")
	v.SetDefault("upstream.base_url", "http://localhost:8080")
	v.SetDefault("upstream.timeout", "10s")
	v.SetDefault("session.token_file", "")

	v.SetEnvPrefix("OVERVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	return Config{
		HTTPAddr:        v.GetString("http.addr"),
		LogLevel:        v.GetString("log.level"),
		UpstreamBaseURL: strings.TrimRight(v.GetString("upstream.base_url"), "/"),
		UpstreamTimeout: v.GetDuration("upstream.timeout"),
		TokenFile:       v.GetString("session.token_file"),
	}, nil
}
