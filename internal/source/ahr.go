package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"MacroBoard/internal/domain/models"
)

// The AHR999 series is embedded in a chart script block on the page
// rather than served as JSON, so it is located by string anchors.
const (
	ahrAnchor    = `name:\"AHR999`
	ahrDataKey   = "data:["
	ahrLabelsKey = "labels:["
)

// AHR999 scrapes the daily AHR999 valuation index.
func (c *Client) AHR999(ctx context.Context) ([]models.AHRPoint, error) {
	html, err := c.http.GetText(ctx, c.cfg.AHRURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch AHR999 page: %w", err)
	}
	points, err := parseAHRSeries(html)
	if err != nil {
		return nil, err
	}
	return points, nil
}

func parseAHRSeries(html string) ([]models.AHRPoint, error) {
	anchorIdx := strings.Index(html, ahrAnchor)
	if anchorIdx == -1 {
		return nil, fmt.Errorf("unable to locate AHR999 series in page")
	}

	rawValues, err := scriptArray(html, anchorIdx, ahrDataKey)
	if err != nil {
		return nil, err
	}
	rawLabels, err := scriptArray(html, anchorIdx, ahrLabelsKey)
	if err != nil {
		return nil, err
	}
	if len(rawValues) != len(rawLabels) {
		return nil, fmt.Errorf("mismatched label/value counts in AHR999 data: %d vs %d", len(rawLabels), len(rawValues))
	}

	points := make([]models.AHRPoint, 0, len(rawValues))
	for i, rawLabel := range rawLabels {
		date, err := time.Parse("2006-01-02", strings.Trim(rawLabel, `"`))
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(rawValues[i], 64)
		if err != nil {
			continue
		}
		points = append(points, models.AHRPoint{Date: date, AHR: value})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("AHR999 series contained no usable points")
	}

	models.SortAHRPoints(points)
	return points, nil
}

// scriptArray extracts the comma-separated items of a `key:[...]` block
// that appears at or after from.
func scriptArray(html string, from int, key string) ([]string, error) {
	start := strings.Index(html[from:], key)
	if start == -1 {
		return nil, fmt.Errorf("missing %q block in AHR999 script section", key)
	}
	start += from + len(key)

	end := strings.Index(html[start:], "]")
	if end == -1 {
		return nil, fmt.Errorf("malformed %q block in AHR999 script section", key)
	}

	var items []string
	for _, item := range strings.Split(html[start:start+end], ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}
