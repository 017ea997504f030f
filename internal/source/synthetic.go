package source

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"MacroBoard/internal/domain/models"
	"MacroBoard/internal/domain/repository"
)

// SyntheticSource generates plausible-looking random series for demos
// without network access. All values are labelled synthetic by the
// company names it emits; nothing here is real market data.
type SyntheticSource struct {
	rng *rand.Rand
}

// NewSyntheticSource seeds a demo-only generator. The same seed yields
// the same series.
func NewSyntheticSource(seed int64) *SyntheticSource {
	return &SyntheticSource{rng: rand.New(rand.NewSource(seed))}
}

var _ repository.Sources = (*SyntheticSource)(nil)

func (s *SyntheticSource) GlobalM2(_ context.Context) ([]models.M2Point, error) {
	points := make([]models.M2Point, 0, 20)
	value := 60.0
	for year := 2005; year <= 2024; year++ {
		value *= 1.03 + s.rng.Float64()*0.04
		points = append(points, models.M2Point{Year: year, ValueTrillion: value})
	}
	return points, nil
}

func (s *SyntheticSource) MarketCaps(_ context.Context) (models.MarketCapSnapshot, error) {
	btcPrice := 40_000 + s.rng.Float64()*60_000
	btcCap := btcPrice * 19.7e6
	goldPrice := 1_900 + s.rng.Float64()*900
	goldCap := goldPrice * float64(models.TotalAboveGroundGoldTonnes) * models.TonnesToTroyOz
	return models.NewMarketCapSnapshot(btcPrice, btcCap, goldPrice, goldCap), nil
}

func (s *SyntheticSource) MVRV(_ context.Context) ([]models.MVRVPoint, error) {
	base := time.Now().UTC().AddDate(0, 0, -365).Truncate(24 * time.Hour)
	points := make([]models.MVRVPoint, 0, 365)
	ratio := 1.5
	for i := 0; i < 365; i++ {
		ratio = math.Max(0.6, ratio+s.rng.NormFloat64()*0.03)
		realized := 4.0e11 * (1 + float64(i)/900)
		points = append(points, models.MVRVPoint{
			Date:           base.AddDate(0, 0, i),
			MVRVRatio:      ratio,
			CapMarketUSD:   realized * ratio,
			CapRealizedUSD: realized,
		})
	}
	return points, nil
}

func (s *SyntheticSource) AHR999(_ context.Context) ([]models.AHRPoint, error) {
	base := time.Now().UTC().AddDate(0, 0, -365).Truncate(24 * time.Hour)
	points := make([]models.AHRPoint, 0, 365)
	value := 1.0
	for i := 0; i < 365; i++ {
		value = math.Max(0.2, value+s.rng.NormFloat64()*0.04)
		points = append(points, models.AHRPoint{Date: base.AddDate(0, 0, i), AHR: value})
	}
	return points, nil
}

func (s *SyntheticSource) ETFFlows(_ context.Context, asset models.Asset) ([]models.ETFFlowPoint, error) {
	if asset != models.AssetBTC && asset != models.AssetETH {
		return nil, fmt.Errorf("no ETF flow source for asset %q", asset)
	}
	scale := 400.0
	if asset == models.AssetETH {
		scale = 120.0
	}
	base := time.Now().UTC().AddDate(0, 0, -90).Truncate(24 * time.Hour)
	points := make([]models.ETFFlowPoint, 0, 90)
	for i := 0; i < 90; i++ {
		points = append(points, models.ETFFlowPoint{
			Date:      base.AddDate(0, 0, i),
			TotalFlow: s.rng.NormFloat64() * scale,
		})
	}
	return points, nil
}

func (s *SyntheticSource) TreasuryHoldings(_ context.Context, asset models.Asset) ([]models.TreasuryHolding, error) {
	if _, err := models.TreasuryDataset(asset); err != nil {
		return nil, err
	}
	rows := make([]models.TreasuryHolding, 0, 15)
	held := 200_000 + s.rng.Float64()*200_000
	for i := 0; i < 15; i++ {
		rows = append(rows, models.TreasuryHolding{
			Company:  fmt.Sprintf("Synthetic Holdings %d", i+1),
			Ticker:   fmt.Sprintf("SYN%d", i+1),
			Type:     "Public",
			Holdings: held,
		})
		held *= 0.55 + s.rng.Float64()*0.3
	}
	return rows, nil
}
