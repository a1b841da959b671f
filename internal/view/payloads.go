package view

// MarketDataPayload carries a partial market data update. Every field is
// independently optional; a nil field means "do not touch that sub-field".
type MarketDataPayload struct {
	LastPrice     *float64 `json:"lastPrice,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
}

// TradeUpdatePayload carries a trade status change pushed over the channel.
type TradeUpdatePayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	// ProgressPercent is passed through verbatim when present. Out-of-range
	// values are not clamped; the progress indicator mirrors the server.
	ProgressPercent *float64 `json:"progressPercent,omitempty"`
}

// ListingUpdatePayload carries a listing change pushed over the channel.
type ListingUpdatePayload struct {
	ID              string   `json:"id"`
	Status          string   `json:"status,omitempty"`
	CurrentPrice    *float64 `json:"currentPrice,omitempty"`
	SharesRemaining *int64   `json:"sharesRemaining,omitempty"`
}

// Notification priorities. Only high and urgent produce a visible toast;
// every notification bumps the unread badge.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// NotificationPayload carries a user notification pushed over the channel.
type NotificationPayload struct {
	Message  string `json:"message"`
	Priority string `json:"priority"`
}
