package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowTableFixture = `Bitcoin ETF Flow - All Data

| Date | IBIT | FBTC | Total |
| --- | --- | --- | --- |
| 12 Jan 2024 | 111.7 | 227.0 | 655.3 |
| 11 Jan 2024 | 10.2 | 5.5 | 628.3 |
| 15 Jan 2024 | - | - | - |
| 16 Jan 2024 | (50.0) | 12.1 | (37.9) |
`

func TestParseDailyFlows(t *testing.T) {
	points, err := parseDailyFlows(flowTableFixture)
	require.NoError(t, err)
	require.Len(t, points, 3)

	// Ordered by date; the all-dash row is skipped; parens are negative.
	assert.Equal(t, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.InDelta(t, 628.3, points[0].TotalFlow, 1e-9)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), points[2].Date)
	assert.InDelta(t, -37.9, points[2].TotalFlow, 1e-9)

	for i := 1; i < len(points); i++ {
		assert.True(t, points[i-1].Date.Before(points[i].Date))
	}
}

func TestParseDailyFlowsEmptyTableIsAnError(t *testing.T) {
	_, err := parseDailyFlows("| Header | Only |\n| --- | --- |\n")
	assert.Error(t, err)
}

func TestETFFlowsHitsAssetPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/eth/", r.URL.Path)
		fmt.Fprint(w, "| 05 Feb 2024 | 1.0 | 12.5 |\n")
	}))
	defer srv.Close()

	c := newTestClient(Config{FarsideURL: srv.URL})

	points, err := c.ETFFlows(context.Background(), "eth")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, 12.5, points[0].TotalFlow, 1e-9)
}

func TestETFFlowsUnknownAsset(t *testing.T) {
	c := newTestClient(Config{})
	_, err := c.ETFFlows(context.Background(), "sol")
	assert.Error(t, err)
}

const btcTreasuryFixture = `Bitcoin Treasury Companies

| Ticker | Name | Type | Country | Currency | Price | Day | Mkt Cap (m) | BTC Holdings |
| --- | --- | --- | --- | --- | --- | --- | --- | --- |
| MSTR | Strategy | Public | US | USD | 402.1 | +1.2% | 84,120 | 331,200 |
| MARA | Marathon Digital | Public | US | USD | 18.4 | -0.5% | 6,210 | 26,842 |
| MSTR | Strategy | Public | US | USD | 402.1 | +1.2% | 84,120 | 331,200 |
| RIOT | Riot Platforms | Public | US | USD | 10.9 | +0.1% | 3,740 | 10,019 |
| XXX | Bad Row | Public | US | USD | 1.0 | 0% | 10 | - |
`

func TestBTCTreasuriesParsesDedupesAndRanks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bitcoin-treasury-companies/", r.URL.Path)
		fmt.Fprint(w, btcTreasuryFixture)
	}))
	defer srv.Close()

	c := newTestClient(Config{FarsideURL: srv.URL, TreasuryTop: 2})

	rows, err := c.TreasuryHoldings(context.Background(), "btc")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Strategy", rows[0].Company)
	assert.Equal(t, "MSTR", rows[0].Ticker)
	assert.Equal(t, 331_200.0, rows[0].Holdings)
	assert.Empty(t, rows[0].ValueUSD)
	assert.Equal(t, "Marathon Digital", rows[1].Company)
}
