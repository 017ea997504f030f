package models

import (
	"sort"
	"strings"
	"time"
)

// Above-ground gold stock estimate used to derive the gold market cap
// from the spot price.
const (
	TotalAboveGroundGoldTonnes = 205_000
	TonnesToTroyOz             = 32_150.7466
)

// MarketCapSnapshot compares the BTC and gold market capitalisations.
type MarketCapSnapshot struct {
	BTCPrice        float64 `json:"btc_price"`
	BTCMarketCap    float64 `json:"btc_market_cap"`
	GoldPrice       float64 `json:"gold_price"`
	GoldMarketCap   float64 `json:"gold_market_cap"`
	GoldVsBTCUpside float64 `json:"gold_vs_btc_upside"`
}

// NewMarketCapSnapshot derives the upside ratio from the two caps.
func NewMarketCapSnapshot(btcPrice, btcCap, goldPrice, goldCap float64) MarketCapSnapshot {
	s := MarketCapSnapshot{
		BTCPrice:      btcPrice,
		BTCMarketCap:  btcCap,
		GoldPrice:     goldPrice,
		GoldMarketCap: goldCap,
	}
	if btcCap > 0 {
		s.GoldVsBTCUpside = goldCap / btcCap
	}
	return s
}

// BTCVsGoldRatio is the inverse view: how much of gold's cap BTC covers.
func (s MarketCapSnapshot) BTCVsGoldRatio() float64 {
	if s.GoldMarketCap == 0 {
		return 0
	}
	return s.BTCMarketCap / s.GoldMarketCap
}

// M2Point is one year of global broad money, in trillions of USD.
type M2Point struct {
	Year          int     `json:"year"`
	ValueTrillion float64 `json:"value_trillion"`
}

// SortM2Points orders points ascending by year.
func SortM2Points(points []M2Point) {
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
}

// MVRVPoint is one day of BTC market-vs-realized valuation.
type MVRVPoint struct {
	Date           time.Time `json:"date"`
	MVRVRatio      float64   `json:"mvrv_ratio"`
	CapMarketUSD   float64   `json:"cap_market_usd"`
	CapRealizedUSD float64   `json:"cap_realized_usd"`
}

// SortMVRVPoints orders points ascending by date and drops duplicate
// days, keeping the first occurrence. Paginated upstreams can repeat a
// day across page boundaries.
func SortMVRVPoints(points []MVRVPoint) []MVRVPoint {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	out := points[:0]
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1].Date.Equal(p.Date) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AHRPoint is one day of the AHR999 valuation index.
type AHRPoint struct {
	Date time.Time `json:"date"`
	AHR  float64   `json:"ahr"`
}

// SortAHRPoints orders points ascending by date.
func SortAHRPoints(points []AHRPoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
}

// ETFFlowPoint is one day of net ETF creations minus redemptions, in
// USD millions. Negative means outflow.
type ETFFlowPoint struct {
	Date      time.Time `json:"date"`
	TotalFlow float64   `json:"total_flow"`
}

// SortETFFlowPoints orders points ascending by date and drops duplicate
// days, keeping the first occurrence.
func SortETFFlowPoints(points []ETFFlowPoint) []ETFFlowPoint {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	out := points[:0]
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1].Date.Equal(p.Date) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// TreasuryHolding is one entity's disclosed balance of a crypto asset.
// ValueUSD is a display string straight from the upstream table; it is
// empty when the source does not publish one.
type TreasuryHolding struct {
	Company  string  `json:"company"`
	Ticker   string  `json:"ticker,omitempty"`
	Holdings float64 `json:"holdings"`
	ValueUSD string  `json:"value_usd,omitempty"`
	Type     string  `json:"type,omitempty"`
	Country  string  `json:"country,omitempty"`
}

// TopTreasuryHoldings deduplicates rows by company name, orders by
// holdings descending, and truncates to at most n rows.
func TopTreasuryHoldings(rows []TreasuryHolding, n int) []TreasuryHolding {
	seen := make(map[string]bool, len(rows))
	unique := make([]TreasuryHolding, 0, len(rows))
	for _, r := range rows {
		key := strings.ToLower(strings.TrimSpace(r.Company))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}

	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Holdings > unique[j].Holdings })

	if n > 0 && len(unique) > n {
		unique = unique[:n]
	}
	return unique
}
