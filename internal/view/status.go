package view

// Variant is a named visual severity color, mirroring the platform's badge
// palette (success, danger, warning, info, primary, secondary).
type Variant string

const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
	VariantSuccess   Variant = "success"
	VariantDanger    Variant = "danger"
	VariantWarning   Variant = "warning"
	VariantInfo      Variant = "info"
)

// Badge is a rendered status marker: a variant color plus a short label.
type Badge struct {
	Variant Variant
	Label   string
}

// tradeStatusBadges maps trade lifecycle statuses to their badge rendering.
var tradeStatusBadges = map[string]Badge{
	"matched":              {VariantWarning, "Matched"},
	"confirmed":            {VariantInfo, "Confirmed"},
	"settlement_initiated": {VariantPrimary, "Settlement"},
	"payment_received":     {VariantSuccess, "Payment"},
	"shares_transferred":   {VariantSuccess, "Transfer"},
	"settled":              {VariantSuccess, "Settled"},
	"failed":               {VariantDanger, "Failed"},
	"cancelled":            {VariantSecondary, "Cancelled"},
}

// TradeStatusBadge returns the badge for a trade status. Unknown statuses get
// a neutral badge labeled with the raw status string.
func TradeStatusBadge(status string) Badge {
	if b, ok := tradeStatusBadges[status]; ok {
		return b
	}
	return Badge{VariantSecondary, status}
}

// listingStatusBadges maps listing lifecycle statuses to their badge rendering.
var listingStatusBadges = map[string]Badge{
	"active":    {VariantSuccess, "Active"},
	"suspended": {VariantWarning, "Suspended"},
	"cancelled": {VariantSecondary, "Cancelled"},
	"expired":   {VariantSecondary, "Expired"},
	"completed": {VariantInfo, "Completed"},
}

// ListingStatusBadge returns the badge for a listing status, with the same
// unknown-status fallback as trade statuses.
func ListingStatusBadge(status string) Badge {
	if b, ok := listingStatusBadges[status]; ok {
		return b
	}
	return Badge{VariantSecondary, status}
}
