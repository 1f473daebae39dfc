// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the command line tool's configuration from
// defaults, an optional config file, ASYNCHTTP_* environment variables
// and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ASYNCHTTP"

// Config holds the tool configuration.
type Config struct {
	LogLevel        string        `mapstructure:"log_level"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ThrottleRPS     int           `mapstructure:"throttle_rps"`
	ThrottleBurst   int           `mapstructure:"throttle_burst"`
	RawParams       bool          `mapstructure:"raw_params"`
	StatusThreshold int           `mapstructure:"status_threshold"`
	DisableHTTP2    bool          `mapstructure:"disable_http2"`
	Resty           bool          `mapstructure:"resty"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":        "log_level",
	"connect-timeout":  "connect_timeout",
	"read-timeout":     "read_timeout",
	"throttle-rps":     "throttle_rps",
	"throttle-burst":   "throttle_burst",
	"raw-params":       "raw_params",
	"status-threshold": "status_threshold",
	"disable-http2":    "disable_http2",
	"resty":            "resty",
	"timeout":          "timeout",
}

// RegisterFlags adds a flag for every configuration key to fs. Flag
// defaults are only informative: a flag overrides the file and the
// environment only when it is set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	fs.Duration("connect-timeout", 10*time.Second, "TCP connect timeout (0 for none)")
	fs.Duration("read-timeout", 30*time.Second, "socket read timeout (0 for none)")
	fs.Int("throttle-rps", 0, "maximum requests per second (0 for unlimited)")
	fs.Int("throttle-burst", 1, "throttle burst size")
	fs.Bool("raw-params", false, "send parameters without escaping them")
	fs.Int("status-threshold", 300, "lowest status code treated as a failure")
	fs.Bool("disable-http2", false, "never negotiate HTTP/2")
	fs.Bool("resty", false, "send requests through a resty client")
	fs.Duration("timeout", 0, "overall request timeout (0 for none)")
}

// Load reads the configuration. If file is not empty it must name a
// readable config file in any format viper supports. A .env file in
// the working directory, if present, is loaded into the environment
// first. fs may be nil.
func Load(file string, fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("log_level", "warn")
	v.SetDefault("connect_timeout", 10*time.Second)
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("throttle_rps", 0)
	v.SetDefault("throttle_burst", 1)
	v.SetDefault("raw_params", false)
	v.SetDefault("status_threshold", 300)
	v.SetDefault("disable_http2", false)
	v.SetDefault("resty", false)
	v.SetDefault("timeout", time.Duration(0))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every value is in range.
func (c *Config) Validate() error {
	if c.ConnectTimeout < 0 {
		return errors.New("invalid connect_timeout (must not be negative)")
	}
	if c.ReadTimeout < 0 {
		return errors.New("invalid read_timeout (must not be negative)")
	}
	if c.Timeout < 0 {
		return errors.New("invalid timeout (must not be negative)")
	}
	if c.ThrottleRPS < 0 {
		return errors.New("invalid throttle_rps (must not be negative)")
	}
	if c.ThrottleRPS > 0 && c.ThrottleBurst <= 0 {
		return errors.New("invalid throttle_burst (must be positive when throttling)")
	}
	if c.StatusThreshold < 100 || c.StatusThreshold > 600 {
		return fmt.Errorf("invalid status_threshold %d (must be between 100 and 600)", c.StatusThreshold)
	}
	return nil
}
