package repository

import (
	"context"
	"time"

	"MacroBoard/internal/domain/models"
)

// Sources provides the upstream dataset calls. The live implementation
// talks to the public providers; the fixture implementation returns
// canned payloads of the same shape.
type Sources interface {
	GlobalM2(ctx context.Context) ([]models.M2Point, error)
	MarketCaps(ctx context.Context) (models.MarketCapSnapshot, error)
	MVRV(ctx context.Context) ([]models.MVRVPoint, error)
	AHR999(ctx context.Context) ([]models.AHRPoint, error)
	ETFFlows(ctx context.Context, asset models.Asset) ([]models.ETFFlowPoint, error)
	TreasuryHoldings(ctx context.Context, asset models.Asset) ([]models.TreasuryHolding, error)
}

// Metrics records fetch and cache telemetry.
type Metrics interface {
	RecordFetch(dataset, outcome string)
	RecordCacheHit(dataset string)
	RecordUpstreamLatency(dataset string, seconds float64)
	RecordRefresh(dataset string, at time.Time)
}

// NopMetrics discards all telemetry. Used by tests.
type NopMetrics struct{}

func (NopMetrics) RecordFetch(string, string)            {}
func (NopMetrics) RecordCacheHit(string)                 {}
func (NopMetrics) RecordUpstreamLatency(string, float64) {}
func (NopMetrics) RecordRefresh(string, time.Time)       {}
