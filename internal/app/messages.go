package app

import (
	"encoding/json"

	"tradebridge/internal/view"
)

// Channel message types pushed by the platform.
const (
	msgTradeUpdate   = "trade_update"
	msgMarketData    = "market_data"
	msgListingUpdate = "listing_update"
	msgNotification  = "notification"
)

// ChannelMessage is the envelope for every frame pushed over the channel: a
// type tag and a payload whose shape depends on the tag. Unknown tags are
// logged and dropped, never fatal.
type ChannelMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// marketDataMessage is the market_data payload: the security being updated
// plus the partial market data fields.
type marketDataMessage struct {
	SecurityID string `json:"securityId"`
	view.MarketDataPayload
}
