package models

import "fmt"

// Dataset identifies one dashboard dataset. It doubles as the cache key.
type Dataset string

const (
	DatasetGlobalM2      Dataset = "global-m2"
	DatasetMarketCaps    Dataset = "market-caps"
	DatasetMVRV          Dataset = "mvrv"
	DatasetAHR999        Dataset = "ahr999"
	DatasetETFFlowsBTC   Dataset = "etf-flows-btc"
	DatasetETFFlowsETH   Dataset = "etf-flows-eth"
	DatasetTreasuriesBTC Dataset = "treasuries-btc"
	DatasetTreasuriesETH Dataset = "treasuries-eth"
	DatasetTreasuriesSOL Dataset = "treasuries-sol"
)

// AllDatasets lists every dataset in panel order.
func AllDatasets() []Dataset {
	return []Dataset{
		DatasetGlobalM2,
		DatasetMarketCaps,
		DatasetMVRV,
		DatasetAHR999,
		DatasetETFFlowsBTC,
		DatasetETFFlowsETH,
		DatasetTreasuriesBTC,
		DatasetTreasuriesETH,
		DatasetTreasuriesSOL,
	}
}

func (d Dataset) String() string { return string(d) }

// Valid reports whether d names a known dataset.
func (d Dataset) Valid() bool {
	for _, known := range AllDatasets() {
		if d == known {
			return true
		}
	}
	return false
}

// Asset identifies a crypto asset for per-asset datasets.
type Asset string

const (
	AssetBTC Asset = "btc"
	AssetETH Asset = "eth"
	AssetSOL Asset = "sol"
)

// ParseAsset validates an asset identifier from a request path.
func ParseAsset(s string) (Asset, error) {
	switch Asset(s) {
	case AssetBTC, AssetETH, AssetSOL:
		return Asset(s), nil
	default:
		return "", fmt.Errorf("unknown asset %q", s)
	}
}

// ETFFlowDataset maps an asset to its ETF flow dataset. Only BTC and
// ETH have spot ETF flow tables.
func ETFFlowDataset(a Asset) (Dataset, error) {
	switch a {
	case AssetBTC:
		return DatasetETFFlowsBTC, nil
	case AssetETH:
		return DatasetETFFlowsETH, nil
	default:
		return "", fmt.Errorf("no ETF flow dataset for asset %q", a)
	}
}

// TreasuryDataset maps an asset to its treasury holdings dataset.
func TreasuryDataset(a Asset) (Dataset, error) {
	switch a {
	case AssetBTC:
		return DatasetTreasuriesBTC, nil
	case AssetETH:
		return DatasetTreasuriesETH, nil
	case AssetSOL:
		return DatasetTreasuriesSOL, nil
	default:
		return "", fmt.Errorf("no treasury dataset for asset %q", a)
	}
}
