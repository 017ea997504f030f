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

func TestMVRVFollowsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("next_page_token") {
		case "":
			assert.Equal(t, "btc", r.URL.Query().Get("assets"))
			assert.Equal(t, "2013-01-01", r.URL.Query().Get("start_time"))
			fmt.Fprint(w, `{
				"data": [
					{"time": "2024-01-02T00:00:00.000000000Z", "CapMrktCurUSD": "840000000000", "CapRealUSD": "450000000000", "CapMVRVCur": "1.8666"},
					{"time": "2024-01-01T00:00:00.000000000Z", "CapMrktCurUSD": "820000000000", "CapRealUSD": "448000000000", "CapMVRVCur": "1.8303"}
				],
				"next_page_token": "page-2"
			}`)
		case "page-2":
			fmt.Fprint(w, `{
				"data": [
					{"time": "2024-01-02T00:00:00.000000000Z", "CapMrktCurUSD": "841000000000", "CapRealUSD": "450000000000", "CapMVRVCur": "1.8689"},
					{"time": "2024-01-03T00:00:00.000000000Z", "CapMrktCurUSD": "860000000000", "CapRealUSD": "452000000000", "CapMVRVCur": "1.9026"},
					{"time": "2024-01-04T00:00:00.000000000Z", "CapMrktCurUSD": "", "CapRealUSD": "", "CapMVRVCur": ""}
				]
			}`)
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("next_page_token"))
		}
	}))
	defer srv.Close()

	c := newTestClient(Config{
		CoinMetricsURL: srv.URL,
		MVRVStart:      time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	points, err := c.MVRV(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 3)

	// Sorted ascending across both pages; the blank row is dropped and
	// the day repeated on the page boundary keeps its first occurrence.
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), points[1].Date)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), points[2].Date)
	assert.InDelta(t, 1.8666, points[1].MVRVRatio, 1e-9)
	assert.InDelta(t, 1.9026, points[2].MVRVRatio, 1e-9)
	assert.InDelta(t, 8.6e11, points[2].CapMarketUSD, 1)

	for _, p := range points {
		assert.InDelta(t, p.CapMarketUSD/p.CapRealizedUSD, p.MVRVRatio, 0.01)
	}
}

func TestMVRVEmptyResponseIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer srv.Close()

	c := newTestClient(Config{CoinMetricsURL: srv.URL})

	_, err := c.MVRV(context.Background())
	assert.Error(t, err)
}
