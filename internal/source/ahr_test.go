package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ahrPageFixture = `<html><head></head><body>
<script>
var chart = {series:[{name:\"AHR999\",data:[0.92,1.01,0.88],labels:["2024-01-02","2024-01-03","2024-01-01"]}]};
</script>
</body></html>`

func TestParseAHRSeries(t *testing.T) {
	points, err := parseAHRSeries(ahrPageFixture)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.InDelta(t, 0.88, points[0].AHR, 1e-9)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), points[2].Date)
	assert.InDelta(t, 1.01, points[2].AHR, 1e-9)
}

func TestParseAHRSeriesMissingAnchor(t *testing.T) {
	_, err := parseAHRSeries(`<html><body>nothing here</body></html>`)
	assert.Error(t, err)
}

func TestParseAHRSeriesMismatchedCounts(t *testing.T) {
	page := `<script>{name:\"AHR999\",data:[1.0,2.0],labels:["2024-01-01"]}</script>`
	_, err := parseAHRSeries(page)
	assert.Error(t, err)
}

func TestParseAHRSeriesNoUsablePoints(t *testing.T) {
	page := `<script>{name:\"AHR999\",data:[abc],labels:["bad-date"]}</script>`
	_, err := parseAHRSeries(page)
	assert.Error(t, err)
}
