package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"MacroBoard/internal/domain/models"
	"MacroBoard/pkg/util"
)

// Farside publishes its tables as HTML behind bot protection; fetched
// through the text proxy they arrive as markdown-style pipe tables.
var farsideDatePattern = regexp.MustCompile(`^\|\s*(\d{2} [A-Za-z]{3} \d{4})\s*\|`)

func (c *Client) farsideFlows(ctx context.Context, path string) ([]models.ETFFlowPoint, error) {
	url := c.proxied(fmt.Sprintf("%s/%s/", trimBase(c.cfg.FarsideURL), path))
	text, err := c.http.GetText(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s ETF flows: %w", path, err)
	}
	return parseDailyFlows(text)
}

func parseDailyFlows(text string) ([]models.ETFFlowPoint, error) {
	var points []models.ETFFlowPoint
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}
		match := farsideDatePattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}

		date, err := time.Parse("02 Jan 2006", match[1])
		if err != nil {
			continue
		}

		// The last column is the day's total net flow.
		parts := splitTableRow(trimmed)
		if len(parts) == 0 {
			continue
		}
		total, ok := util.ParseAbbreviatedNumber(parts[len(parts)-1])
		if !ok {
			continue
		}

		points = append(points, models.ETFFlowPoint{Date: date, TotalFlow: total})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no daily ETF flow rows found in table")
	}

	return models.SortETFFlowPoints(points), nil
}

func (c *Client) btcTreasuries(ctx context.Context) ([]models.TreasuryHolding, error) {
	url := c.proxied(fmt.Sprintf("%s/bitcoin-treasury-companies/", trimBase(c.cfg.FarsideURL)))
	text, err := c.http.GetText(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch BTC treasuries: %w", err)
	}

	var rows []models.TreasuryHolding
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}
		// Columns: Ticker, Name, Type, Country, Currency, Price,
		// Day Change, Market Cap (m), BTC Holdings.
		parts := splitTableRow(trimmed)
		if len(parts) < 9 || parts[0] == "Ticker" || parts[0] == "" {
			continue
		}
		holdings, ok := util.ParseAbbreviatedNumber(parts[8])
		if !ok || holdings < 0 {
			continue
		}
		rows = append(rows, models.TreasuryHolding{
			Company:  parts[1],
			Ticker:   parts[0],
			Type:     parts[2],
			Country:  parts[3],
			Holdings: holdings,
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no BTC treasury rows parsed")
	}

	return models.TopTreasuryHoldings(rows, c.cfg.TreasuryTop), nil
}

// splitTableRow breaks a `| a | b | c |` line into trimmed cells.
func splitTableRow(line string) []string {
	parts := strings.Split(strings.Trim(line, "|"), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
