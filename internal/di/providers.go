package di

import (
	"fmt"
	"time"

	"MacroBoard/internal/domain/models"
	"MacroBoard/internal/domain/repository"
	"MacroBoard/internal/handler/api"
	"MacroBoard/internal/source"
	"MacroBoard/internal/usecase"
	"MacroBoard/pkg/cache"
	"MacroBoard/pkg/config"
	xhttp "MacroBoard/pkg/http"
	applogger "MacroBoard/pkg/logger"
	"MacroBoard/pkg/metrics"
	"MacroBoard/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideCache creates the configured cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Type {
	case "redis":
		return cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
	case "memory":
		return cache.NewMemoryCache(
			cache.WithMemoryMaxEntries(cfg.Cache.Memory.MaxEntries),
			cache.WithMemoryCleanup(cfg.Cache.Memory.CleanupInterval.Std()),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
	}
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the throttled upstream HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Sources.Timeout.Std()),
		xhttp.WithUserAgent(cfg.Sources.UserAgent),
		xhttp.WithRateLimit(cfg.Sources.RateLimit.Capacity, cfg.Sources.RateLimit.RefillPer),
	)
}

// ProvideSources creates the dataset sources: live providers by
// default, fixtures or a synthetic generator when configured.
func ProvideSources(cfg *config.Config, httpClient *xhttp.Client, lg *applogger.Logger) (repository.Sources, error) {
	if cfg.Sources.Mock {
		return source.NewFixtureSource(), nil
	}
	if cfg.Sources.Synthetic {
		return source.NewSyntheticSource(time.Now().UnixNano()), nil
	}

	start, err := time.Parse("2006-01-02", cfg.Sources.MVRVStart)
	if err != nil {
		return nil, fmt.Errorf("sources.mvrv_start: %w", err)
	}
	return source.New(httpClient, source.Config{
		WorldBankURL:     cfg.Sources.WorldBankURL,
		CoinGeckoURL:     cfg.Sources.CoinGeckoURL,
		GoldPriceURL:     cfg.Sources.GoldPriceURL,
		CoinMetricsURL:   cfg.Sources.CoinMetricsURL,
		AHRURL:           cfg.Sources.AHRURL,
		ProxyPrefix:      cfg.Sources.ProxyPrefix,
		FarsideURL:       cfg.Sources.FarsideURL,
		EthTreasuriesURL: cfg.Sources.EthTreasuriesURL,
		SolTreasuriesURL: cfg.Sources.SolTreasuriesURL,
		MVRVStart:        start,
		TreasuryTop:      cfg.Sources.TreasuryTop,
	}, lg), nil
}

// ProvideTTLs maps each dataset to its configured cache lifetime.
func ProvideTTLs(cfg *config.Config) map[models.Dataset]time.Duration {
	return map[models.Dataset]time.Duration{
		models.DatasetGlobalM2:      cfg.TTL.GlobalM2.Std(),
		models.DatasetMarketCaps:    cfg.TTL.MarketCaps.Std(),
		models.DatasetMVRV:          cfg.TTL.MVRV.Std(),
		models.DatasetAHR999:        cfg.TTL.AHR999.Std(),
		models.DatasetETFFlowsBTC:   cfg.TTL.ETFFlows.Std(),
		models.DatasetETFFlowsETH:   cfg.TTL.ETFFlows.Std(),
		models.DatasetTreasuriesBTC: cfg.TTL.Treasuries.Std(),
		models.DatasetTreasuriesETH: cfg.TTL.Treasuries.Std(),
		models.DatasetTreasuriesSOL: cfg.TTL.Treasuries.Std(),
	}
}

// ProvideBoard creates the fetch-and-cache facade.
func ProvideBoard(
	src repository.Sources,
	cch cache.Service,
	ttl map[models.Dataset]time.Duration,
	met repository.Metrics,
	lg *applogger.Logger,
) *usecase.Board {
	return usecase.NewBoard(src, cch, ttl, met, lg)
}

// ProvideDashboard creates the panel registry.
func ProvideDashboard(board *usecase.Board, lg *applogger.Logger) *usecase.Dashboard {
	return usecase.NewDashboard(board, lg)
}

// ProvideRefresher creates the cache warming scheduler.
func ProvideRefresher(board *usecase.Board, lg *applogger.Logger) *usecase.Refresher {
	return usecase.NewRefresher(board, lg)
}

// ProvideStreamHub creates the websocket broadcast hub.
func ProvideStreamHub(lg *applogger.Logger) *api.StreamHub {
	return api.NewStreamHub(lg)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(
	board *usecase.Board,
	dash *usecase.Dashboard,
	hub *api.StreamHub,
	lg *applogger.Logger,
) xhttp.Handler {
	return api.NewBoardHandler(board, dash, hub, lg)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lg *applogger.Logger,
	cch cache.Service,
	dash *usecase.Dashboard,
	refresher *usecase.Refresher,
	hub *api.StreamHub,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, lg, cch, dash, refresher, hub, handler)
}
