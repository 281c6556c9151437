package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/localpulse/dashboard-service/internal/adapter/httpapi"
	"github.com/localpulse/dashboard-service/internal/adapter/newsapi"
	"github.com/localpulse/dashboard-service/internal/adapter/nws"
	"github.com/localpulse/dashboard-service/internal/adapter/openweather"
	"github.com/localpulse/dashboard-service/internal/aggregator"
	"github.com/localpulse/dashboard-service/internal/collection"
	"github.com/localpulse/dashboard-service/internal/config"
	"github.com/localpulse/dashboard-service/internal/dashboard"
	"github.com/localpulse/dashboard-service/internal/observability"
	"github.com/localpulse/dashboard-service/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	weather := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.WeatherBaseURL, cfg.GeocodeBaseURL, cfg.ProviderTimeout, metrics, logger)
	geocoder := openweather.NewCachedGeocoder(weather, cfg.GeocodeCacheSize, metrics)
	alerts := nws.NewClient(cfg.AlertsBaseURL, cfg.NWSUserAgent, cfg.ProviderTimeout, metrics, logger)
	news := newsapi.NewClient(cfg.NewsAPIKey, cfg.NewsBaseURL, cfg.ProviderTimeout, metrics, logger)

	agg := aggregator.New(weather, alerts, news, geocoder, metrics, logger)

	store := storage.NewFileStore(cfg.StatePath)
	manager := collection.NewManager(cfg.CollationLocale)
	svc := dashboard.NewService(agg, manager, store, metrics, logger)

	svc.Init(ctx, dashboard.Bootstrap{
		Enabled:  cfg.BootstrapEnabled,
		Lat:      cfg.BootstrapLat,
		Lng:      cfg.BootstrapLng,
		Nickname: cfg.BootstrapNickname,
		Query:    cfg.BootstrapQuery,
	})

	proxy := httpapi.NewProxy(httpapi.ProxyConfig{
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		NewsAPIKey:        cfg.NewsAPIKey,
		NWSUserAgent:      cfg.NWSUserAgent,
		WeatherBaseURL:    cfg.WeatherBaseURL,
		GeocodeBaseURL:    cfg.GeocodeBaseURL,
		AlertsBaseURL:     cfg.AlertsBaseURL,
		NewsBaseURL:       cfg.NewsBaseURL,
		Timeout:           cfg.ProviderTimeout,
	}, logger)

	srv := httpapi.NewServer(cfg.HTTPAddr, svc, proxy, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
