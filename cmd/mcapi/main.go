// Command mcapi serves Minecraft server status, query, and icon lookups
// behind a coalescing cache backed by Redis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Syfaro/mcapi/internal/api"
	"github.com/Syfaro/mcapi/internal/cache"
	"github.com/Syfaro/mcapi/internal/config"
	"github.com/Syfaro/mcapi/internal/core"
	"github.com/Syfaro/mcapi/internal/envelope"
	"github.com/Syfaro/mcapi/internal/logging"
	"github.com/Syfaro/mcapi/internal/metrics"
	"github.com/Syfaro/mcapi/internal/resolver"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// cliFlags holds parsed command-line overrides. Flags win over every
// other config source.
type cliFlags struct {
	httpHost string
	debug    bool
	jsonLogs bool
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.httpHost, "http-host", "", "Override the HTTP listen address")
	flag.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&f.jsonLogs, "json-logs", false, "Enable JSON structured logging")
	flag.Parse()
	return f
}

func applyCLIOverrides(cfg *config.Config, f cliFlags) {
	if f.httpHost != "" {
		cfg.HTTPHost = f.httpHost
	}
	if f.debug {
		cfg.LogLevel = "debug"
	}
	if f.jsonLogs {
		cfg.LogStructured = true
	}
}

func run() error {
	flags := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg, flags)

	logger := logging.Configure(logging.Config{
		Level:      cfg.LogLevel,
		Structured: cfg.LogStructured,
	})
	logger.Info("mcapi starting", "http_host", cfg.HTTPHost)
	logHostSnapshot(logger)

	redisClients := make([]*redis.Client, 0, len(cfg.RedisServers))
	for _, addr := range cfg.RedisServers {
		client := redis.NewClient(parseRedisURL(addr))
		defer client.Close()
		redisClients = append(redisClients, client)
	}
	logger.Info("redis nodes configured", "count", len(redisClients))

	reg := metrics.New(prometheus.DefaultRegisterer)
	res := resolver.New(cfg.ResolverTTL, 4096)

	store := cache.NewRedisStore(redisClients[0])
	locker := cache.NewRedisLocker(redisClients...)

	pingCache := cache.New[envelope.PingEnvelope](store, locker, reg, cfg.CacheMaxAge, cfg.CacheHardTTL)
	queryCache := cache.New[envelope.QueryEnvelope](store, locker, reg, cfg.CacheMaxAge, cfg.CacheHardTTL)

	svc := core.New(res, pingCache, queryCache)

	server := api.New(cfg.HTTPHost, svc, reg, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		serveErr := server.ListenAndServe()
		if serveErr == nil || errors.Is(serveErr, http.ErrServerClosed) {
			return
		}
		logger.Error("http server error", "err", serveErr)
		cancel()
	}()

	logger.Info("http server listening", "addr", cfg.HTTPHost)
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("mcapi stopped")
	return nil
}

// parseRedisURL accepts either a bare host:port or a redis:// URL,
// falling back to treating the whole string as an address on parse
// failure so a plain "host:port" REDIS_SERVER value still works.
func parseRedisURL(raw string) *redis.Options {
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return &redis.Options{Addr: raw}
	}
	return opts
}

// logHostSnapshot logs a one-shot CPU/memory snapshot at boot purely
// for operational visibility; nothing in the request path depends on it.
func logHostSnapshot(logger interface {
	Info(msg string, args ...any)
}) {
	percents, err := cpu.Percent(100*time.Millisecond, false)
	var cpuPercent float64
	if err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}

	var memUsedPercent float64
	if vm, err := mem.VirtualMemory(); err == nil {
		memUsedPercent = vm.UsedPercent
	}

	logger.Info("host snapshot", "cpu_percent", cpuPercent, "mem_used_percent", memUsedPercent)
}
