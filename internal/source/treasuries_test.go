package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ethTreasuryPageFixture = `<html><body>
<table>
<tr><th>Entity</th><th>Ticker</th><th>ETH</th><th>Value</th></tr>
<tr><td>BitMine Immersion</td><td>BMNR</td><td>192,500</td><td>$612,300,000</td></tr>
<tr><td>SharpLink Gaming</td><td>SBET</td><td>145,110 ETH</td><td>$461,500,000</td></tr>
<tr><td>Pending Entity</td><td>???</td><td>-</td><td>-</td></tr>
<tr><td>Short row</td></tr>
</table>
</body></html>`

func TestETHTreasuriesParsesHTMLTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ethTreasuryPageFixture)
	}))
	defer srv.Close()

	c := newTestClient(Config{EthTreasuriesURL: srv.URL})

	rows, err := c.TreasuryHoldings(context.Background(), "eth")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "BitMine Immersion", rows[0].Company)
	assert.Equal(t, "BMNR", rows[0].Ticker)
	assert.Equal(t, 192_500.0, rows[0].Holdings)
	assert.Equal(t, "$612,300,000", rows[0].ValueUSD)
	assert.Equal(t, 145_110.0, rows[1].Holdings)
}

func TestETHTreasuriesEmptyPageIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>maintenance</p></body></html>")
	}))
	defer srv.Close()

	c := newTestClient(Config{EthTreasuriesURL: srv.URL})

	_, err := c.TreasuryHoldings(context.Background(), "eth")
	assert.Error(t, err)
}

const solTreasuryFixture = `Solana Treasury Tracker

| Company | Type | Country | SOL Holdings | Value | % Supply | Price | Updated |
| --- | --- | --- | --- | --- | --- | --- | --- |
| 1. Upexi | Public | US | 735,692 | $108.2m | 0.13% | $147 | today |
| 2. DeFi Development Corp | Public | US | 621,313 | $91.4m | 0.11% | $147 | today |
| 3. Sol Strategies | Public | CA | 267,151 | $39.3m | 0.05% | $147 | today |
`

func TestSOLTreasuriesParsesProxiedTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, solTreasuryFixture)
	}))
	defer srv.Close()

	c := newTestClient(Config{SolTreasuriesURL: srv.URL, TreasuryTop: 2})

	rows, err := c.TreasuryHoldings(context.Background(), "sol")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Upexi", rows[0].Company)
	assert.Equal(t, "US", rows[0].Country)
	assert.Equal(t, 735_692.0, rows[0].Holdings)
	assert.Equal(t, "$108.2m", rows[0].ValueUSD)
	assert.Equal(t, "DeFi Development Corp", rows[1].Company)
}

func TestStripRankPrefix(t *testing.T) {
	assert.Equal(t, "Upexi", stripRankPrefix("1. Upexi"))
	assert.Equal(t, "Upexi", stripRankPrefix("Upexi"))
	assert.Equal(t, "3M Company", stripRankPrefix("12. 3M Company"))
	assert.Equal(t, "42", stripRankPrefix("42"))
}
