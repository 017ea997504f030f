package source

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"MacroBoard/internal/domain/models"
)

// CoinMetrics returns numeric metrics as JSON strings.
type cmPage struct {
	Data []struct {
		Time          string `json:"time"`
		CapMrktCurUSD string `json:"CapMrktCurUSD"`
		CapRealUSD    string `json:"CapRealUSD"`
		CapMVRVCur    string `json:"CapMVRVCur"`
	} `json:"data"`
	NextPageToken string `json:"next_page_token"`
}

// MVRV returns the daily MVRV ratio with its market and realized cap
// inputs, from the configured start date through today. The community
// API pages results with next_page_token.
func (c *Client) MVRV(ctx context.Context) ([]models.MVRVPoint, error) {
	baseURL := fmt.Sprintf(
		"%s/timeseries/asset-metrics?assets=btc&metrics=CapMrktCurUSD,CapRealUSD,CapMVRVCur&frequency=1d&start_time=%s&end_time=%s",
		trimBase(c.cfg.CoinMetricsURL),
		c.cfg.MVRVStart.Format("2006-01-02"),
		time.Now().UTC().Format("2006-01-02"),
	)

	var points []models.MVRVPoint
	nextToken := ""
	for {
		url := baseURL
		if nextToken != "" {
			url += "&next_page_token=" + nextToken
		}

		var page cmPage
		if err := c.http.GetJSON(ctx, url, nil, &page); err != nil {
			return nil, fmt.Errorf("fetch coinmetrics MVRV page: %w", err)
		}

		for _, row := range page.Data {
			ts, err := time.Parse(time.RFC3339, row.Time)
			if err != nil {
				return nil, fmt.Errorf("invalid timestamp %q in coinmetrics payload: %w", row.Time, err)
			}
			capMarket, err1 := strconv.ParseFloat(row.CapMrktCurUSD, 64)
			capRealized, err2 := strconv.ParseFloat(row.CapRealUSD, 64)
			ratio, err3 := strconv.ParseFloat(row.CapMVRVCur, 64)
			if err1 != nil || err2 != nil || err3 != nil {
				continue
			}
			if math.IsNaN(capMarket) || math.IsNaN(capRealized) || math.IsNaN(ratio) {
				continue
			}
			points = append(points, models.MVRVPoint{
				Date:           ts.UTC().Truncate(24 * time.Hour),
				MVRVRatio:      ratio,
				CapMarketUSD:   capMarket,
				CapRealizedUSD: capRealized,
			})
		}

		if page.NextPageToken == "" {
			break
		}
		nextToken = page.NextPageToken
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("coinmetrics returned no data for MVRV")
	}

	return models.SortMVRVPoints(points), nil
}
