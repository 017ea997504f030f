package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MacroBoard/internal/domain/models"
	"MacroBoard/internal/domain/repository"
	"MacroBoard/pkg/cache"
	applogger "MacroBoard/pkg/logger"
)

const cacheKeyPrefix = "dataset"

// defaultTTL applies to any dataset the TTL table does not mention.
const defaultTTL = 30 * time.Minute

// Board is the fetch-and-cache facade over the upstream sources. Every
// read goes cache first, then upstream; a failed refresh falls back to
// the last good value for that dataset, marked stale.
type Board struct {
	src repository.Sources
	cch cache.Service
	ttl map[models.Dataset]time.Duration
	met repository.Metrics
	lg  *applogger.Logger

	mu       sync.RWMutex
	lastGood map[models.Dataset]goodEntry
}

type goodEntry struct {
	value     any
	fetchedAt time.Time
}

// cacheEntry is the stored shape of one dataset value, so the fetch
// timestamp survives the round trip through the cache backend.
type cacheEntry[T any] struct {
	Data      T         `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewBoard creates the facade. ttl maps each dataset to its cache
// lifetime; datasets missing from the map get a 30 minute default.
func NewBoard(src repository.Sources, cch cache.Service, ttl map[models.Dataset]time.Duration, met repository.Metrics, lg *applogger.Logger) *Board {
	if met == nil {
		met = repository.NopMetrics{}
	}
	return &Board{
		src:      src,
		cch:      cch,
		ttl:      ttl,
		met:      met,
		lg:       lg.Component("board"),
		lastGood: make(map[models.Dataset]goodEntry),
	}
}

// GlobalM2 returns the yearly global broad money series.
func (b *Board) GlobalM2(ctx context.Context) models.Envelope[[]models.M2Point] {
	return fetchDataset(ctx, b, models.DatasetGlobalM2, b.src.GlobalM2)
}

// MarketCaps returns the BTC vs gold market cap comparison.
func (b *Board) MarketCaps(ctx context.Context) models.Envelope[models.MarketCapSnapshot] {
	return fetchDataset(ctx, b, models.DatasetMarketCaps, b.src.MarketCaps)
}

// MVRV returns the daily BTC MVRV series.
func (b *Board) MVRV(ctx context.Context) models.Envelope[[]models.MVRVPoint] {
	return fetchDataset(ctx, b, models.DatasetMVRV, b.src.MVRV)
}

// AHR999 returns the daily AHR999 index series.
func (b *Board) AHR999(ctx context.Context) models.Envelope[[]models.AHRPoint] {
	return fetchDataset(ctx, b, models.DatasetAHR999, b.src.AHR999)
}

// ETFFlows returns the daily spot ETF net flow series for the asset.
func (b *Board) ETFFlows(ctx context.Context, asset models.Asset) models.Envelope[[]models.ETFFlowPoint] {
	ds, err := models.ETFFlowDataset(asset)
	if err != nil {
		return models.Fail[[]models.ETFFlowPoint](err.Error())
	}
	return fetchDataset(ctx, b, ds, func(ctx context.Context) ([]models.ETFFlowPoint, error) {
		return b.src.ETFFlows(ctx, asset)
	})
}

// TreasuryHoldings returns the top corporate treasury table for the asset.
func (b *Board) TreasuryHoldings(ctx context.Context, asset models.Asset) models.Envelope[[]models.TreasuryHolding] {
	ds, err := models.TreasuryDataset(asset)
	if err != nil {
		return models.Fail[[]models.TreasuryHolding](err.Error())
	}
	return fetchDataset(ctx, b, ds, func(ctx context.Context) ([]models.TreasuryHolding, error) {
		return b.src.TreasuryHoldings(ctx, asset)
	})
}

// Outcome is the type-erased result of one dataset fetch, for callers
// that drive fetches without consuming the payload.
type Outcome struct {
	Dataset   models.Dataset
	Stale     bool
	FetchedAt time.Time
	Err       error
}

// FetchDataset runs a fetch for any dataset by name. Panels and the
// refresh scheduler go through here.
func (b *Board) FetchDataset(ctx context.Context, ds models.Dataset) Outcome {
	switch ds {
	case models.DatasetGlobalM2:
		return toOutcome(ds, b.GlobalM2(ctx))
	case models.DatasetMarketCaps:
		return toOutcome(ds, b.MarketCaps(ctx))
	case models.DatasetMVRV:
		return toOutcome(ds, b.MVRV(ctx))
	case models.DatasetAHR999:
		return toOutcome(ds, b.AHR999(ctx))
	case models.DatasetETFFlowsBTC:
		return toOutcome(ds, b.ETFFlows(ctx, models.AssetBTC))
	case models.DatasetETFFlowsETH:
		return toOutcome(ds, b.ETFFlows(ctx, models.AssetETH))
	case models.DatasetTreasuriesBTC:
		return toOutcome(ds, b.TreasuryHoldings(ctx, models.AssetBTC))
	case models.DatasetTreasuriesETH:
		return toOutcome(ds, b.TreasuryHoldings(ctx, models.AssetETH))
	case models.DatasetTreasuriesSOL:
		return toOutcome(ds, b.TreasuryHoldings(ctx, models.AssetSOL))
	default:
		return Outcome{Dataset: ds, Err: fmt.Errorf("unknown dataset %q", ds)}
	}
}

func toOutcome[T any](ds models.Dataset, env models.Envelope[T]) Outcome {
	out := Outcome{Dataset: ds, Stale: env.Stale, FetchedAt: env.FetchedAt}
	if env.Failed() {
		out.Err = fmt.Errorf("%s", env.Error)
	}
	return out
}

// Invalidate drops the dataset's cache entry so the next fetch goes
// upstream. The last-good fallback value is kept.
func (b *Board) Invalidate(ctx context.Context, ds models.Dataset) error {
	return b.cch.Delete(ctx, cache.GenerateKey(cacheKeyPrefix, ds.String()))
}

// TTLFor returns the cache lifetime configured for the dataset.
func (b *Board) TTLFor(ds models.Dataset) time.Duration {
	if ttl, ok := b.ttl[ds]; ok && ttl > 0 {
		return ttl
	}
	return defaultTTL
}

func fetchDataset[T any](ctx context.Context, b *Board, ds models.Dataset, call func(context.Context) (T, error)) models.Envelope[T] {
	key := cache.GenerateKey(cacheKeyPrefix, ds.String())

	entry, hit, err := cache.GetTyped[cacheEntry[T]](ctx, b.cch, key)
	if err != nil {
		b.lg.Warn("cache read failed", applogger.String("dataset", ds.String()), applogger.Error(err))
	} else if hit {
		b.met.RecordCacheHit(ds.String())
		return models.Ok(entry.Data, entry.FetchedAt)
	}

	start := time.Now()
	value, err := safeCall(ctx, call)
	b.met.RecordUpstreamLatency(ds.String(), time.Since(start).Seconds())

	if err == nil {
		now := time.Now().UTC()
		b.met.RecordFetch(ds.String(), "success")
		b.met.RecordRefresh(ds.String(), now)
		if err := b.cch.Set(ctx, key, cacheEntry[T]{Data: value, FetchedAt: now}, b.TTLFor(ds)); err != nil {
			b.lg.Warn("cache write failed", applogger.String("dataset", ds.String()), applogger.Error(err))
		}
		b.rememberGood(ds, value, now)
		return models.Ok(value, now)
	}

	b.lg.Error("dataset fetch failed", applogger.String("dataset", ds.String()), applogger.Error(err))

	if prev, at, ok := lastGoodValue[T](b, ds); ok {
		b.met.RecordFetch(ds.String(), "stale")
		return models.StaleOk(prev, at)
	}

	b.met.RecordFetch(ds.String(), "failure")
	return models.Fail[T](err.Error())
}

// safeCall runs the upstream call and converts a panic in a parser
// into an ordinary error.
func safeCall[T any](ctx context.Context, call func(context.Context) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return call(ctx)
}

func (b *Board) rememberGood(ds models.Dataset, value any, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastGood[ds] = goodEntry{value: value, fetchedAt: at}
}

func lastGoodValue[T any](b *Board, ds models.Dataset) (T, time.Time, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var zero T
	entry, ok := b.lastGood[ds]
	if !ok {
		return zero, time.Time{}, false
	}
	value, ok := entry.value.(T)
	if !ok {
		return zero, time.Time{}, false
	}
	return value, entry.fetchedAt, true
}
