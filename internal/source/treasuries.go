package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"MacroBoard/internal/domain/models"
	"MacroBoard/pkg/util"
)

func (c *Client) ethTreasuries(ctx context.Context) ([]models.TreasuryHolding, error) {
	body, err := c.http.GetBody(ctx, c.cfg.EthTreasuriesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch ETH treasuries: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse ETH treasuries page: %w", err)
	}

	var rows []models.TreasuryHolding
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 4 {
			return
		}
		held, ok := util.ParseAbbreviatedNumber(cells.Eq(2).Text())
		if !ok || held <= 0 {
			return
		}
		rows = append(rows, models.TreasuryHolding{
			Company:  strings.TrimSpace(cells.Eq(0).Text()),
			Ticker:   strings.TrimSpace(cells.Eq(1).Text()),
			Holdings: held,
			ValueUSD: strings.TrimSpace(cells.Eq(3).Text()),
		})
	})
	if len(rows) == 0 {
		return nil, fmt.Errorf("no ETH treasury rows parsed")
	}

	return models.TopTreasuryHoldings(rows, c.cfg.TreasuryTop), nil
}

func (c *Client) solTreasuries(ctx context.Context) ([]models.TreasuryHolding, error) {
	text, err := c.http.GetText(ctx, c.proxied(c.cfg.SolTreasuriesURL), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch SOL treasuries: %w", err)
	}

	var rows []models.TreasuryHolding
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}
		// Columns: Company, Type, Country, SOL Holdings, Value, ...
		parts := splitTableRow(trimmed)
		if len(parts) < 8 || parts[0] == "Company" || parts[0] == "" {
			continue
		}
		held, ok := util.ParseAbbreviatedNumber(parts[3])
		if !ok || held <= 0 {
			continue
		}
		rows = append(rows, models.TreasuryHolding{
			Company:  stripRankPrefix(parts[0]),
			Type:     parts[1],
			Country:  parts[2],
			Holdings: held,
			ValueUSD: parts[4],
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no SOL treasury rows parsed")
	}

	return models.TopTreasuryHoldings(rows, c.cfg.TreasuryTop), nil
}

// rankPrefixPattern matches the "1. "-style rank the table renders
// before some company names.
var rankPrefixPattern = regexp.MustCompile(`^\d+\.\s+`)

func stripRankPrefix(name string) string {
	return rankPrefixPattern.ReplaceAllString(name, "")
}
