package platformapi

import (
	"context"
	"fmt"
	"net/url"
)

// MarketData is the market-data resource returned by the platform. Fields
// the backend omits stay nil and must not overwrite displayed values.
type MarketData struct {
	LastPrice     *float64 `json:"lastPrice,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
}

// GetMarketData fetches market data for one security.
func (c *PlatformApiClient) GetMarketData(ctx context.Context, securityID string) (MarketData, error) {
	var md MarketData
	if securityID == "" {
		return md, fmt.Errorf("securityID is empty")
	}

	path := "/market-data/" + url.PathEscape(securityID)
	if err := c.Get(ctx, path, &md); err != nil {
		return md, fmt.Errorf("get market data %s: %w", securityID, err)
	}
	return md, nil
}
