// Package config loads mcapi's configuration with the same layering
// HydraDNS uses: hardcoded defaults, then environment variables, then
// command-line flags applied by the caller afterward, validated at the
// end of Load so a bad value fails fast at boot.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully resolved configuration for one mcapi process.
type Config struct {
	HTTPHost string

	// RedisServers is the Redlock node set: the first entry is used for
	// cache reads/writes, and all entries participate in the distributed
	// lock's majority-acquisition quorum.
	RedisServers []string

	CacheMaxAge     time.Duration
	CacheHardTTL    time.Duration
	ResolverTTL     time.Duration
	ProtocolTimeout time.Duration

	LogLevel      string
	LogStructured bool
}

// Load builds a Config from defaults overridden by environment
// variables. HTTP_HOST and REDIS_SERVER are read without the MCAPI_
// prefix to match the original service's literal env var contract;
// every other setting is namespaced under MCAPI_ to avoid collisions.
// REDIS_SERVER is required (a comma-separated list of one or more Redis
// addresses); Load returns an error if it is unset.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MCAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("http_host", "HTTP_HOST"); err != nil {
		return nil, fmt.Errorf("config: bind HTTP_HOST: %w", err)
	}
	if err := v.BindEnv("redis_server", "REDIS_SERVER"); err != nil {
		return nil, fmt.Errorf("config: bind REDIS_SERVER: %w", err)
	}

	cfg := &Config{
		HTTPHost:        v.GetString("http_host"),
		RedisServers:    parseServerList(v.GetString("redis_server")),
		CacheMaxAge:     v.GetDuration("cache.max_age"),
		CacheHardTTL:    v.GetDuration("cache.hard_ttl"),
		ResolverTTL:     v.GetDuration("resolver.ttl"),
		ProtocolTimeout: v.GetDuration("protocol.timeout"),
		LogLevel:        v.GetString("log.level"),
		LogStructured:   v.GetBool("log.structured"),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_host", "0.0.0.0:8080")

	// Matches the original service's MAX_AGE / MAX_STALE_AGE constants:
	// an entry is considered fresh for 300s, and is never kept past a
	// hard cap well beyond that so a wedged refresh can't pin a stale
	// entry forever.
	v.SetDefault("cache.max_age", 300*time.Second)
	v.SetDefault("cache.hard_ttl", 600*time.Second)

	v.SetDefault("resolver.ttl", time.Minute)
	v.SetDefault("protocol.timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.structured", false)
}

// parseServerList splits a comma-separated REDIS_SERVER value into its
// individual node addresses, trimming whitespace and dropping empties.
func parseServerList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// validate checks the fields Load cannot safely default: REDIS_SERVER is
// required (no default, matching the original service's expect() panic),
// and every duration must be positive.
func validate(cfg *Config) error {
	if len(cfg.RedisServers) == 0 {
		return errors.New("REDIS_SERVER is required")
	}
	if cfg.CacheMaxAge <= 0 {
		return errors.New("cache.max_age must be positive")
	}
	if cfg.CacheHardTTL <= 0 {
		return errors.New("cache.hard_ttl must be positive")
	}
	if cfg.ResolverTTL <= 0 {
		return errors.New("resolver.ttl must be positive")
	}
	if cfg.ProtocolTimeout <= 0 {
		return errors.New("protocol.timeout must be positive")
	}
	return nil
}
