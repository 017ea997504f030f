package source

import (
	"context"
	"fmt"
	"time"

	"MacroBoard/internal/domain/models"
	"MacroBoard/internal/domain/repository"
)

// FixtureSource serves a small fixed dataset. It backs the mock-sources
// mode and the handler tests, so every value here is deterministic.
type FixtureSource struct{}

// NewFixtureSource returns an offline Sources implementation.
func NewFixtureSource() *FixtureSource {
	return &FixtureSource{}
}

var _ repository.Sources = (*FixtureSource)(nil)

func (f *FixtureSource) GlobalM2(_ context.Context) ([]models.M2Point, error) {
	return []models.M2Point{
		{Year: 2015, ValueTrillion: 72.4},
		{Year: 2016, ValueTrillion: 76.1},
		{Year: 2017, ValueTrillion: 82.9},
		{Year: 2018, ValueTrillion: 85.3},
		{Year: 2019, ValueTrillion: 89.7},
		{Year: 2020, ValueTrillion: 102.6},
		{Year: 2021, ValueTrillion: 111.2},
		{Year: 2022, ValueTrillion: 108.4},
		{Year: 2023, ValueTrillion: 114.8},
		{Year: 2024, ValueTrillion: 121.3},
	}, nil
}

func (f *FixtureSource) MarketCaps(_ context.Context) (models.MarketCapSnapshot, error) {
	goldCap := 2350.0 * float64(models.TotalAboveGroundGoldTonnes) * models.TonnesToTroyOz
	return models.NewMarketCapSnapshot(64_000, 1.26e12, 2350, goldCap), nil
}

func (f *FixtureSource) MVRV(_ context.Context) ([]models.MVRVPoint, error) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ratios := []float64{1.82, 1.85, 1.91, 1.88, 1.94, 2.01, 2.07, 2.03, 2.11, 2.18}
	points := make([]models.MVRVPoint, 0, len(ratios))
	for i, r := range ratios {
		realized := 4.5e11 + float64(i)*1e9
		points = append(points, models.MVRVPoint{
			Date:           base.AddDate(0, 0, i),
			MVRVRatio:      r,
			CapMarketUSD:   realized * r,
			CapRealizedUSD: realized,
		})
	}
	return points, nil
}

func (f *FixtureSource) AHR999(_ context.Context) ([]models.AHRPoint, error) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{0.92, 0.95, 1.01, 1.08, 1.12, 1.04, 0.99, 1.15, 1.21, 1.18}
	points := make([]models.AHRPoint, 0, len(values))
	for i, v := range values {
		points = append(points, models.AHRPoint{Date: base.AddDate(0, 0, i), AHR: v})
	}
	return points, nil
}

func (f *FixtureSource) ETFFlows(_ context.Context, asset models.Asset) ([]models.ETFFlowPoint, error) {
	var flows []float64
	switch asset {
	case models.AssetBTC:
		flows = []float64{645.2, -120.5, 212.9, 498.1, -75.3, 331.6, 0, 189.4}
	case models.AssetETH:
		flows = []float64{102.3, -48.9, 77.2, 12.5, -5.1, 64.8, 91.0, -22.4}
	default:
		return nil, fmt.Errorf("no ETF flow source for asset %q", asset)
	}
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	points := make([]models.ETFFlowPoint, 0, len(flows))
	for i, v := range flows {
		points = append(points, models.ETFFlowPoint{Date: base.AddDate(0, 0, i), TotalFlow: v})
	}
	return points, nil
}

func (f *FixtureSource) TreasuryHoldings(_ context.Context, asset models.Asset) ([]models.TreasuryHolding, error) {
	switch asset {
	case models.AssetBTC:
		return []models.TreasuryHolding{
			{Company: "Strategy", Ticker: "MSTR", Type: "Public", Country: "US", Holdings: 331_200},
			{Company: "Marathon Digital", Ticker: "MARA", Type: "Public", Country: "US", Holdings: 26_842},
			{Company: "Riot Platforms", Ticker: "RIOT", Type: "Public", Country: "US", Holdings: 10_019},
			{Company: "Tesla", Ticker: "TSLA", Type: "Public", Country: "US", Holdings: 9_720},
			{Company: "Hut 8", Ticker: "HUT", Type: "Public", Country: "CA", Holdings: 9_109},
		}, nil
	case models.AssetETH:
		return []models.TreasuryHolding{
			{Company: "BitMine Immersion", Ticker: "BMNR", Holdings: 192_500, ValueUSD: "$612,300,000"},
			{Company: "SharpLink Gaming", Ticker: "SBET", Holdings: 145_110, ValueUSD: "$461,500,000"},
			{Company: "Coinbase", Ticker: "COIN", Holdings: 118_240, ValueUSD: "$376,100,000"},
			{Company: "Bit Digital", Ticker: "BTBT", Holdings: 27_620, ValueUSD: "$87,800,000"},
		}, nil
	case models.AssetSOL:
		return []models.TreasuryHolding{
			{Company: "Upexi", Type: "Public", Country: "US", Holdings: 735_692, ValueUSD: "$108.2m"},
			{Company: "DeFi Development Corp", Type: "Public", Country: "US", Holdings: 621_313, ValueUSD: "$91.4m"},
			{Company: "Sol Strategies", Type: "Public", Country: "CA", Holdings: 267_151, ValueUSD: "$39.3m"},
		}, nil
	default:
		return nil, fmt.Errorf("no treasury source for asset %q", asset)
	}
}
