package source

import (
	"context"
	"fmt"

	"MacroBoard/internal/domain/models"
)

type goldRatesPayload struct {
	Items []struct {
		XAUPrice float64 `json:"xauPrice"` // USD per troy ounce
	} `json:"items"`
}

// MarketCaps returns the latest BTC and gold market capitalisation
// figures. The gold cap is derived from the spot price and the fixed
// above-ground stock estimate.
func (c *Client) MarketCaps(ctx context.Context) (models.MarketCapSnapshot, error) {
	var zero models.MarketCapSnapshot

	btcURL := fmt.Sprintf(
		"%s/simple/price?ids=bitcoin&vs_currencies=usd&include_market_cap=true",
		trimBase(c.cfg.CoinGeckoURL),
	)
	var btcPayload map[string]map[string]float64
	if err := c.http.GetJSON(ctx, btcURL, nil, &btcPayload); err != nil {
		return zero, fmt.Errorf("fetch BTC market cap: %w", err)
	}
	btc, ok := btcPayload["bitcoin"]
	if !ok || len(btc) == 0 {
		return zero, fmt.Errorf("coingecko response missing bitcoin data")
	}
	btcPrice := btc["usd"]
	btcCap := btc["usd_market_cap"]
	if btcPrice <= 0 || btcCap <= 0 {
		return zero, fmt.Errorf("coingecko returned empty bitcoin figures")
	}

	var goldPayload goldRatesPayload
	if err := c.http.GetJSON(ctx, c.cfg.GoldPriceURL, nil, &goldPayload); err != nil {
		return zero, fmt.Errorf("fetch gold price: %w", err)
	}
	if len(goldPayload.Items) == 0 {
		return zero, fmt.Errorf("gold price feed missing items list")
	}
	goldPrice := goldPayload.Items[0].XAUPrice
	if goldPrice <= 0 {
		return zero, fmt.Errorf("gold price feed returned non-positive price")
	}

	totalOz := float64(models.TotalAboveGroundGoldTonnes) * models.TonnesToTroyOz
	goldCap := goldPrice * totalOz

	return models.NewMarketCapSnapshot(btcPrice, btcCap, goldPrice, goldCap), nil
}
