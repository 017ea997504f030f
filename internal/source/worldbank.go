package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"MacroBoard/internal/domain/models"
)

// wbRecord is one indicator observation. Value is null for years the
// World Bank has no data for.
type wbRecord struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// GlobalM2 returns global broad money (indicator FM.LBL.BMNY.CN) by
// year, in trillions of current USD.
func (c *Client) GlobalM2(ctx context.Context) ([]models.M2Point, error) {
	url := fmt.Sprintf(
		"%s/country/WLD/indicator/FM.LBL.BMNY.CN?format=json&per_page=600",
		trimBase(c.cfg.WorldBankURL),
	)

	// The World Bank wraps results as [metadata, records].
	var payload []json.RawMessage
	if err := c.http.GetJSON(ctx, url, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch world bank M2: %w", err)
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("world bank M2 payload missing records element")
	}

	var records []wbRecord
	if err := json.Unmarshal(payload[1], &records); err != nil {
		return nil, fmt.Errorf("parse world bank M2 records: %w", err)
	}

	points := make([]models.M2Point, 0, len(records))
	for _, rec := range records {
		if rec.Value == nil {
			continue
		}
		year, err := strconv.Atoi(rec.Date)
		if err != nil {
			continue
		}
		points = append(points, models.M2Point{
			Year:          year,
			ValueTrillion: *rec.Value / 1e12,
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("world bank M2 dataset returned no usable data")
	}

	models.SortM2Points(points)
	return points, nil
}
