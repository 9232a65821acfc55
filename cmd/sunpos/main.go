package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/star/sunpos/internal/api"
	"github.com/star/sunpos/internal/auth"
	"github.com/star/sunpos/internal/iers"
	"github.com/star/sunpos/internal/metrics"
	"github.com/star/sunpos/internal/observer"
)

// iersConfig holds Earth orientation data settings loaded from the environment.
type iersConfig struct {
	EnableFetch bool
	SourceURL   string
	Refresh     time.Duration
	CacheDir    string
	MaxFiles    int
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("SUNPOS_LOG_LEVEL")),
	}))

	addr := os.Getenv("SUNPOS_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	authCfg, err := loadAuthConfig(logger)
	if err != nil {
		logger.Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}

	iersCfg := loadIERSConfig(logger)
	store := iers.NewStore()
	iersCache := iers.NewCache(iersCfg.CacheDir, iersCfg.MaxFiles)

	// Attempt to load cached IERS data on startup.
	if err := store.LoadCache(iersCache, logger); err != nil {
		logger.Info("no IERS cache found, starting without Earth orientation data", "error", err)
	} else {
		tbl := store.Get()
		metrics.SetIERSTable(store.AgeSeconds(), len(tbl.Entries))
		logger.Info("loaded IERS data from cache",
			"rows", len(tbl.Entries),
			"cached_at", tbl.FetchedAt.Format(time.RFC3339),
		)
	}

	workers := loadWorkers(logger)
	metrics.SetWorkers(workers)

	srv := api.NewServer(api.Config{
		Addr:            addr,
		Auth:            authCfg,
		TrustProxy:      envBool(logger, "SUNPOS_TRUST_PROXY", false),
		Workers:         workers,
		DefaultLocation: loadDefaultLocation(logger),
		RequireIERS:     iersCfg.EnableFetch,
	}, logger, store, observer.SystemClock{})

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if iersCfg.EnableFetch {
		fetcher := iers.NewFetcher(iersCfg.SourceURL, logger)
		go store.RunRefresher(ctx, iersCfg.Refresh, fetcher, iersCache, logger, func(t *iers.Table, err error) {
			metrics.IncIERSRefresh(err == nil)
			if err == nil {
				metrics.SetIERSTable(store.AgeSeconds(), len(t.Entries))
			}
		})
	}

	// Background goroutine to update the IERS table age gauge.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if tbl := store.Get(); tbl != nil {
					metrics.SetIERSTable(store.AgeSeconds(), len(tbl.Entries))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("starting server", "addr", addr, "auth_enabled", authCfg.Enabled, "iers_fetch_enabled", iersCfg.EnableFetch)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func logLevel(v string) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envBool(logger *slog.Logger, name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("invalid boolean value, using default", "name", name, "value", v, "default", def)
		return def
	}
	return b
}

func loadAuthConfig(logger *slog.Logger) (auth.Config, error) {
	cfg := auth.Config{}

	if v := os.Getenv("SUNPOS_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.New("SUNPOS_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.Enabled = enabled
	}
	if cfg.Enabled {
		cfg.Token = os.Getenv("SUNPOS_AUTH_TOKEN")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.New("SUNPOS_AUTH_TOKEN is required when auth is enabled")
	}
	if cfg.Enabled {
		logger.Info("auth enabled")
	}

	return cfg, nil
}

func loadIERSConfig(logger *slog.Logger) iersConfig {
	cfg := iersConfig{
		EnableFetch: envBool(logger, "SUNPOS_ENABLE_IERS_FETCH", true),
		SourceURL:   iers.DefaultSourceURL,
		Refresh:     24 * time.Hour,
		CacheDir:    "./data",
		MaxFiles:    3,
	}

	if v := os.Getenv("SUNPOS_IERS_URL"); v != "" {
		cfg.SourceURL = v
	}

	if v := os.Getenv("SUNPOS_IERS_REFRESH"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < time.Minute {
			logger.Warn("invalid SUNPOS_IERS_REFRESH value, using default", "value", v, "default", cfg.Refresh.String())
		} else {
			cfg.Refresh = d
		}
	}

	if v := os.Getenv("SUNPOS_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}

	if v := os.Getenv("SUNPOS_CACHE_MAX_FILES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SUNPOS_CACHE_MAX_FILES value, using default", "value", v, "default", cfg.MaxFiles)
		} else {
			cfg.MaxFiles = n
		}
	}

	logger.Info("IERS config",
		"fetch_enabled", cfg.EnableFetch,
		"source_url", cfg.SourceURL,
		"refresh", cfg.Refresh.String(),
		"cache_dir", cfg.CacheDir,
	)

	return cfg
}

func loadWorkers(logger *slog.Logger) int {
	workers := runtime.NumCPU()
	if v := os.Getenv("SUNPOS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SUNPOS_WORKERS value, using default", "value", v, "default", workers)
		} else {
			workers = n
		}
	}
	return workers
}

// loadDefaultLocation reads the static observer used when requests omit
// lat/lon. Both SUNPOS_DEFAULT_LAT and SUNPOS_DEFAULT_LON must be set.
func loadDefaultLocation(logger *slog.Logger) *observer.Location {
	latStr, lonStr := os.Getenv("SUNPOS_DEFAULT_LAT"), os.Getenv("SUNPOS_DEFAULT_LON")
	if latStr == "" && lonStr == "" {
		return nil
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		logger.Warn("invalid default location, lat/lon will be required per request",
			"lat", latStr, "lon", lonStr)
		return nil
	}

	loc := &observer.Location{Latitude: lat, Longitude: lon}
	if v := os.Getenv("SUNPOS_DEFAULT_ELEV"); v != "" {
		elev, err := strconv.ParseFloat(v, 64)
		if err != nil {
			logger.Warn("invalid SUNPOS_DEFAULT_ELEV value, using default", "value", v, "default", 0)
		} else {
			loc.Elevation = elev
		}
	}

	logger.Info("default location", "lat", loc.Latitude, "lon", loc.Longitude, "elev", loc.Elevation)
	return loc
}
