package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MacroBoard/internal/domain/models"
	"MacroBoard/internal/domain/repository"
	xhttp "MacroBoard/pkg/http"
	applogger "MacroBoard/pkg/logger"
)

// Config holds the upstream endpoints. Every URL is overridable so
// tests can point the client at a local server.
type Config struct {
	WorldBankURL     string
	CoinGeckoURL     string
	GoldPriceURL     string
	CoinMetricsURL   string
	AHRURL           string
	ProxyPrefix      string
	FarsideURL       string
	EthTreasuriesURL string
	SolTreasuriesURL string
	MVRVStart        time.Time
	TreasuryTop      int
}

// Client fetches every dataset from its public provider. It does no
// caching; the facade layer owns that.
type Client struct {
	http *xhttp.Client
	cfg  Config
	lg   *applogger.Logger
}

// New creates a live source client.
func New(httpClient *xhttp.Client, cfg Config, lg *applogger.Logger) *Client {
	if cfg.TreasuryTop <= 0 {
		cfg.TreasuryTop = 15
	}
	if cfg.MVRVStart.IsZero() {
		cfg.MVRVStart = time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Client{
		http: httpClient,
		cfg:  cfg,
		lg:   lg.Component("source"),
	}
}

var _ repository.Sources = (*Client)(nil)

// ETFFlows returns the daily net flow table for the asset's spot ETFs.
func (c *Client) ETFFlows(ctx context.Context, asset models.Asset) ([]models.ETFFlowPoint, error) {
	switch asset {
	case models.AssetBTC:
		return c.farsideFlows(ctx, "btc")
	case models.AssetETH:
		return c.farsideFlows(ctx, "eth")
	default:
		return nil, fmt.Errorf("no ETF flow source for asset %q", asset)
	}
}

// TreasuryHoldings returns the top corporate treasury balances for the asset.
func (c *Client) TreasuryHoldings(ctx context.Context, asset models.Asset) ([]models.TreasuryHolding, error) {
	switch asset {
	case models.AssetBTC:
		return c.btcTreasuries(ctx)
	case models.AssetETH:
		return c.ethTreasuries(ctx)
	case models.AssetSOL:
		return c.solTreasuries(ctx)
	default:
		return nil, fmt.Errorf("no treasury source for asset %q", asset)
	}
}

// proxied routes a scrape-hostile page through the text-rendering proxy.
func (c *Client) proxied(rawURL string) string {
	if c.cfg.ProxyPrefix == "" {
		return rawURL
	}
	return c.cfg.ProxyPrefix + rawURL
}

func trimBase(u string) string {
	return strings.TrimRight(u, "/")
}
